package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondery/bondery/internal/audit"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/exporters"
)

// exportPageSize is the batch size used when streaming all contacts.
const exportPageSize = 500

// ExportContactStore is the read access the vCard export needs.
type ExportContactStore interface {
	GetContactByID(id, userID uint) (*entities.Contact, error)
	ListContacts(userID uint, limit, offset int) ([]entities.Contact, int64, error)
}

// ExportGroupStore resolves group-scoped exports.
type ExportGroupStore interface {
	GetContactsByGroup(groupID, userID uint) ([]entities.Contact, error)
}

// ExportController serves contact downloads in vCard 3.0 format.
type ExportController struct {
	contactStore ExportContactStore
	groupStore   ExportGroupStore
	exporter     *exporters.VCardExporter
	auditService *audit.Service
}

func NewExportController(contactStore ExportContactStore, groupStore ExportGroupStore, auditService *audit.Service) *ExportController {
	return &ExportController{
		contactStore: contactStore,
		groupStore:   groupStore,
		exporter:     exporters.NewVCardExporter(),
		auditService: auditService,
	}
}

func writeVCardHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/vcard; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// ExportAll streams every contact, optionally scoped to one group
// GET /api/export/vcard?group_id=
func (ec *ExportController) ExportAll(c *gin.Context) {
	userID := GetUserID(c)

	if c.Query("group_id") != "" {
		groupID, ok := parseQueryID(c, "group_id")
		if !ok {
			return
		}
		ec.exportGroup(c, userID, groupID)
		return
	}

	writeVCardHeaders(c, "contacts.vcf")

	var exported int
	for offset := 0; ; offset += exportPageSize {
		page, total, err := ec.contactStore.ListContacts(userID, exportPageSize, offset)
		if err != nil {
			ec.logExport(userID, exported, err)
			respondInternalError(c, err, "export contacts")
			return
		}
		result, err := ec.exporter.Export(c.Writer, page)
		exported += result.ContactsProcessed
		if err != nil {
			ec.logExport(userID, exported, err)
			return
		}
		if int64(offset+len(page)) >= total || len(page) == 0 {
			break
		}
	}
	ec.logExport(userID, exported, nil)
}

func (ec *ExportController) exportGroup(c *gin.Context, userID, groupID uint) {
	list, err := ec.groupStore.GetContactsByGroup(groupID, userID)
	if err != nil {
		if errors.Is(err, groups.ErrNotFound) {
			respondNotFound(c, "group")
			return
		}
		respondInternalError(c, err, "export group contacts")
		return
	}

	writeVCardHeaders(c, fmt.Sprintf("group_%d_contacts.vcf", groupID))
	result, err := ec.exporter.Export(c.Writer, list)
	ec.logExport(userID, result.ContactsProcessed, err)
}

// ExportContact downloads a single contact's vCard
// GET /api/contacts/:id/vcard
func (ec *ExportController) ExportContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	contact, err := ec.contactStore.GetContactByID(id, userID)
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			respondNotFound(c, "contact")
			return
		}
		respondInternalError(c, err, "get contact")
		return
	}

	writeVCardHeaders(c, fmt.Sprintf("contact_%d.vcf", id))
	result, err := ec.exporter.Export(c.Writer, []entities.Contact{*contact})
	ec.logExport(userID, result.ContactsProcessed, err)
}

func (ec *ExportController) logExport(userID uint, count int, err error) {
	if ec.auditService == nil {
		return
	}
	ec.auditService.LogExport(userID, fmt.Sprintf("exported %d contacts as vCard at %s",
		count, time.Now().Format(time.RFC3339)), err)
}
