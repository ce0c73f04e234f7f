package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

// LinkPrecedence marks a contact as the root of its identity group or as a
// member linked to that root.
type LinkPrecedence string

const (
	LinkPrecedencePrimary   LinkPrecedence = "primary"
	LinkPrecedenceSecondary LinkPrecedence = "secondary"
)

const maxEmailLength = 320
const maxPhoneLength = 20

var phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)

// Contact is one (email, phone) observation of a person, plus its position
// in the identity graph. Live contacts form a forest of depth one: primaries
// are roots, secondaries point at a primary through LinkedID.
type Contact struct {
	ID             int64          `json:"id"`
	Email          *string        `json:"email,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	LinkedID       *int64         `json:"linkedId,omitempty"`
	LinkPrecedence LinkPrecedence `json:"linkPrecedence"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty"`
}

// IsPrimary returns true if the contact is the root of its group.
func (c *Contact) IsPrimary() bool {
	return c.LinkPrecedence == LinkPrecedencePrimary
}

// Matches returns true if the contact's (email, phone) pair equals the given
// pair, treating absent as equal to absent.
func (c *Contact) Matches(email, phone *string) bool {
	return equalOptional(c.Email, email) && equalOptional(c.Phone, phone)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type dbScanner interface {
	Scan(dest ...interface{}) error
}

// ScanContact scans a contacts row into a Contact. The column order must be
// id, email, phone, linked_id, link_precedence, created_at, updated_at,
// deleted_at.
func ScanContact(s dbScanner) (*Contact, error) {
	var c Contact
	if err := s.Scan(
		&c.ID,
		&c.Email,
		&c.Phone,
		&c.LinkedID,
		&c.LinkPrecedence,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// ConsolidatedContact is the public view of one identity group.
type ConsolidatedContact struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// NewConsolidatedContact flattens a group into its public payload. The
// primary's email and phone come first; secondaries are traversed in
// ascending created_at (ties broken by ascending id) and contribute their
// fields only when present and not already listed.
func NewConsolidatedContact(primary *Contact, secondaries []*Contact) *ConsolidatedContact {
	ordered := make([]*Contact, len(secondaries))
	copy(ordered, secondaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	out := &ConsolidatedContact{
		PrimaryContactID:    primary.ID,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIDs: []int64{},
	}

	seenEmails := make(map[string]bool)
	seenPhones := make(map[string]bool)

	appendContact := func(c *Contact) {
		if c.Email != nil && !seenEmails[*c.Email] {
			seenEmails[*c.Email] = true
			out.Emails = append(out.Emails, *c.Email)
		}
		if c.Phone != nil && !seenPhones[*c.Phone] {
			seenPhones[*c.Phone] = true
			out.PhoneNumbers = append(out.PhoneNumbers, *c.Phone)
		}
	}

	appendContact(primary)
	for _, sec := range ordered {
		appendContact(sec)
		out.SecondaryContactIDs = append(out.SecondaryContactIDs, sec.ID)
	}

	return out
}

// IdentifyRequest is a normalized reconciliation request. At least one of
// Email or Phone is present once Validate has passed.
type IdentifyRequest struct {
	Email *string
	Phone *string
}

// identifyPayload is the wire shape of an identify request. phoneNumber may
// arrive as a JSON string or a bare number; numbers are stringified.
type identifyPayload struct {
	Email       *string         `json:"email"`
	PhoneNumber json.RawMessage `json:"phoneNumber"`
}

// FromJSON decodes an identify request body. An empty body is an error.
func (r *IdentifyRequest) FromJSON(body io.Reader) error {
	var payload identifyPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		if err == io.EOF {
			return NewValidationError("request body is empty")
		}
		return NewValidationError(fmt.Sprintf("invalid JSON body: %v", err))
	}

	r.Email = payload.Email
	r.Phone = nil

	raw := strings.TrimSpace(string(payload.PhoneNumber))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var phone string
		if err := json.Unmarshal(payload.PhoneNumber, &phone); err != nil {
			return NewValidationError(fmt.Sprintf("invalid phoneNumber: %v", err))
		}
		r.Phone = &phone
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(payload.PhoneNumber, &number); err != nil {
		return NewValidationError("phoneNumber must be a string or a number")
	}
	phone := number.String()
	r.Phone = &phone
	return nil
}

// Validate normalizes the request in place and checks formats. Email is
// trimmed and lowercased; phone is only trimmed, the user-entered form is
// preserved. Fields that are empty after trimming count as absent.
func (r *IdentifyRequest) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		if email == "" {
			r.Email = nil
		} else {
			if len(email) > maxEmailLength {
				return NewValidationError(fmt.Sprintf("email exceeds %d characters", maxEmailLength))
			}
			if !govalidator.IsEmail(email) {
				return NewValidationError("email is not a valid address")
			}
			r.Email = &email
		}
	}

	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		if phone == "" {
			r.Phone = nil
		} else {
			if len(phone) > maxPhoneLength {
				return NewValidationError(fmt.Sprintf("phoneNumber exceeds %d characters", maxPhoneLength))
			}
			if !phonePattern.MatchString(phone) {
				return NewValidationError("phoneNumber contains disallowed characters")
			}
			r.Phone = &phone
		}
	}

	if r.Email == nil && r.Phone == nil {
		return NewValidationError("at least one of email or phoneNumber is required")
	}

	return nil
}
