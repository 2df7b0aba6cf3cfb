package importers

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bondery/bondery/internal/entities"
)

// Validation issue codes attached to PreparedContact.Issues.
const (
	IssueMissingName   = "missing_name"
	IssueMissingHandle = "missing_handle"
	IssueBadHandle     = "invalid_handle"
)

// Platform username format checks. LinkedIn public identifiers allow
// letters, digits and hyphens; Instagram handles allow letters, digits,
// periods and underscores up to 30 characters.
var (
	linkedinUsernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9\-]{3,100}$`)
	instagramUsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]{1,30}$`)
)

// RawConnectionRecord is the canonical per-platform connection shape
// produced by the extractors. It exists only for the duration of a single
// parse request.
type RawConnectionRecord struct {
	Platform    entities.Platform
	Handle      string
	DisplayName string // Instagram: optional profile name
	FirstName   string // LinkedIn: from the CSV columns
	LastName    string
	ProfileURL  string
	Company     string // LinkedIn only
	Position    string // LinkedIn only
	ConnectedAt *time.Time
	// ConnectedOnRaw preserves the platform's own timestamp string for
	// display when it could not be parsed.
	ConnectedOnRaw string
}

// PreparedContact is the candidate entry passed between the preparer, the
// reviewing client, and the committer. Immutable once produced; the client
// only toggles membership in its selected set.
type PreparedContact struct {
	// TempID identifies the entry within one parse response. It is never
	// a persisted contact id.
	TempID     string            `json:"tempId"`
	Platform   entities.Platform `json:"platform"`
	FirstName  string            `json:"firstName"`
	MiddleName string            `json:"middleName,omitempty"`
	LastName   string            `json:"lastName,omitempty"`
	Username   string            `json:"username"`
	ProfileURL string            `json:"profileUrl,omitempty"`
	Company    string            `json:"company,omitempty"`
	Position   string            `json:"position,omitempty"`

	AlreadyExists bool     `json:"alreadyExists"`
	IsValid       bool     `json:"isValid"`
	Issues        []string `json:"issues"`

	// LikelyPerson is a best-effort heuristic for Instagram accounts; it
	// affects ordering and default selection, never exclusion. Always true
	// for LinkedIn connections.
	LikelyPerson  bool     `json:"likelyPerson"`
	PersonSignals []string `json:"personSignals,omitempty"`

	ConnectedAt    *time.Time `json:"connectedAt,omitempty"`
	ConnectedOnRaw string     `json:"connectedOnRaw,omitempty"`

	// Selected is the default selection offered to the reviewing client:
	// valid, likely-person, not already stored.
	Selected bool `json:"selected"`
}

// ParseResult is the response body of a parse call.
type ParseResult struct {
	Contacts     []PreparedContact `json:"contacts"`
	TotalCount   int               `json:"totalCount"`
	ValidCount   int               `json:"validCount"`
	InvalidCount int               `json:"invalidCount"`
}

// Preparer turns raw connection records into reviewed import candidates.
type Preparer struct {
	classifier PersonClassifier
}

// NewPreparer creates a preparer using the default person classifier.
func NewPreparer() *Preparer {
	return &Preparer{classifier: NewKeywordClassifier()}
}

// NewPreparerWithClassifier creates a preparer with a custom classifier.
func NewPreparerWithClassifier(classifier PersonClassifier) *Preparer {
	return &Preparer{classifier: classifier}
}

// Prepare converts raw records into PreparedContacts, validates them,
// marks entries whose handle the user already stores (existing maps
// normalized handle to contact id), and orders the result for review:
// already existing first, then valid likely-person entries, then valid
// entries flagged unlikely-person, then invalid entries, each group in
// encounter order.
func (p *Preparer) Prepare(records []RawConnectionRecord, existing map[string]uint) ParseResult {
	contacts := make([]PreparedContact, 0, len(records))
	for _, record := range records {
		contacts = append(contacts, p.prepareOne(record, existing))
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return previewRank(contacts[i]) < previewRank(contacts[j])
	})

	result := ParseResult{Contacts: contacts, TotalCount: len(contacts)}
	for _, contact := range contacts {
		if contact.IsValid {
			result.ValidCount++
		} else {
			result.InvalidCount++
		}
	}
	return result
}

func (p *Preparer) prepareOne(record RawConnectionRecord, existing map[string]uint) PreparedContact {
	contact := PreparedContact{
		TempID:         uuid.NewString(),
		Platform:       record.Platform,
		Username:       NormalizeHandle(record.Handle),
		ProfileURL:     record.ProfileURL,
		Company:        record.Company,
		Position:       record.Position,
		ConnectedAt:    record.ConnectedAt,
		ConnectedOnRaw: record.ConnectedOnRaw,
		Issues:         []string{},
	}

	contact.FirstName, contact.MiddleName, contact.LastName = recordName(record)

	if contact.FirstName == "" {
		contact.Issues = append(contact.Issues, IssueMissingName)
	}
	if contact.Username == "" {
		contact.Issues = append(contact.Issues, IssueMissingHandle)
	} else if !ValidUsername(record.Platform, contact.Username) {
		contact.Issues = append(contact.Issues, IssueBadHandle)
	}
	contact.IsValid = len(contact.Issues) == 0

	if contact.Username != "" {
		_, contact.AlreadyExists = existing[contact.Username]
	}

	verdict := p.classifier.Classify(record)
	contact.LikelyPerson = verdict.LikelyPerson
	contact.PersonSignals = verdict.Signals

	contact.Selected = contact.IsValid && contact.LikelyPerson && !contact.AlreadyExists

	return contact
}

// recordName resolves the first/middle/last name for a record. LinkedIn
// provides the parts directly; Instagram provides a single display name,
// falling back to a name derived from the handle.
func recordName(record RawConnectionRecord) (first, middle, last string) {
	if record.FirstName != "" || record.LastName != "" {
		return strings.TrimSpace(record.FirstName), "", strings.TrimSpace(record.LastName)
	}
	name := record.DisplayName
	if name == "" && record.Platform == entities.PlatformInstagram {
		name = HumanizeHandle(record.Handle)
	}
	return SplitName(name)
}

// previewRank orders the parse preview for triage.
func previewRank(contact PreparedContact) int {
	switch {
	case contact.AlreadyExists:
		return 0
	case contact.IsValid && contact.LikelyPerson:
		return 1
	case contact.IsValid:
		return 2
	default:
		return 3
	}
}

// NormalizeHandle lowercases and trims a platform handle so comparisons
// against stored contacts are case-insensitive.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// ValidUsername reports whether the handle satisfies the platform's
// username format.
func ValidUsername(platform entities.Platform, handle string) bool {
	switch platform {
	case entities.PlatformLinkedIn:
		return linkedinUsernamePattern.MatchString(handle)
	case entities.PlatformInstagram:
		return instagramUsernamePattern.MatchString(handle) && !strings.HasSuffix(handle, ".")
	default:
		return false
	}
}
