// Package exporters renders stored contacts into interchange formats.
// Currently only vCard 3.0 is supported.
package exporters

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bondery/bondery/internal/entities"
)

// VCardExporter writes contacts as a vCard 3.0 stream (RFC 2426). One
// vCard per contact; the output is importable by Google Contacts, Apple
// Contacts and most phone address books.
type VCardExporter struct {
	// ProductID overrides the PRODID property when set.
	ProductID string
}

func NewVCardExporter() *VCardExporter {
	return &VCardExporter{}
}

// ExportResult summarizes an export call.
type ExportResult struct {
	ContactsProcessed int `json:"contacts_processed"`
}

const defaultProductID = "-//Bondery//Contact Export//EN"

// Export writes all contacts to w, returning the processed count.
func (e *VCardExporter) Export(w io.Writer, contacts []entities.Contact) (ExportResult, error) {
	var result ExportResult
	for _, contact := range contacts {
		if err := e.writeCard(w, contact); err != nil {
			return result, err
		}
		result.ContactsProcessed++
	}
	return result, nil
}

func (e *VCardExporter) writeCard(w io.Writer, contact entities.Contact) error {
	productID := e.ProductID
	if productID == "" {
		productID = defaultProductID
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	b.WriteString("PRODID:" + escapeValue(productID) + "\r\n")

	// N: last;first;middle;prefix;suffix
	fmt.Fprintf(&b, "N:%s;%s;%s;;\r\n",
		escapeValue(contact.LastName), escapeValue(contact.FirstName), escapeValue(contact.MiddleName))
	b.WriteString("FN:" + escapeValue(contact.DisplayName()) + "\r\n")

	if contact.Nickname != "" {
		b.WriteString("NICKNAME:" + escapeValue(contact.Nickname) + "\r\n")
	}
	if contact.Email != "" {
		b.WriteString("EMAIL;TYPE=INTERNET:" + escapeValue(contact.Email) + "\r\n")
	}
	if contact.Phone != "" {
		b.WriteString("TEL;TYPE=CELL:" + escapeValue(contact.Phone) + "\r\n")
	}
	if contact.Birthday != nil {
		b.WriteString("BDAY:" + contact.Birthday.Format("2006-01-02") + "\r\n")
	}
	if contact.Company != "" {
		b.WriteString("ORG:" + escapeValue(contact.Company) + "\r\n")
	}
	if contact.Position != "" {
		b.WriteString("TITLE:" + escapeValue(contact.Position) + "\r\n")
	}
	for _, link := range profileURLs(contact) {
		b.WriteString("URL:" + escapeValue(link) + "\r\n")
	}
	if contact.Notes != "" {
		b.WriteString("NOTE:" + escapeValue(contact.Notes) + "\r\n")
	}
	b.WriteString("REV:" + time.Now().UTC().Format("20060102T150405Z") + "\r\n")
	b.WriteString("END:VCARD\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// profileURLs collects the contact's web links, reconstructing profile
// URLs from bare handles where the full URL wasn't stored.
func profileURLs(contact entities.Contact) []string {
	var links []string
	switch {
	case contact.LinkedIn != "":
		links = append(links, contact.LinkedIn)
	case contact.LinkedInUsername != "":
		links = append(links, "https://www.linkedin.com/in/"+contact.LinkedInUsername)
	}
	switch {
	case contact.Instagram != "" && strings.HasPrefix(contact.Instagram, "http"):
		links = append(links, contact.Instagram)
	case contact.InstagramUsername != "":
		links = append(links, "https://www.instagram.com/"+contact.InstagramUsername)
	}
	if contact.Website != "" {
		links = append(links, contact.Website)
	}
	return links
}

// escapeValue escapes commas, semicolons, backslashes and newlines per
// RFC 2426 section 5.
func escapeValue(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(value)
}
