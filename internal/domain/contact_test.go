package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func makeContact(id int64, email, phone string, createdAt time.Time) *Contact {
	c := &Contact{ID: id, CreatedAt: createdAt, LinkPrecedence: LinkPrecedenceSecondary}
	if email != "" {
		c.Email = &email
	}
	if phone != "" {
		c.Phone = &phone
	}
	return c
}

func TestNewConsolidatedContact_PrimaryFieldsFirst(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	primary := makeContact(1, "doc@hv.edu", "555-0100", now)
	primary.LinkPrecedence = LinkPrecedencePrimary
	secondaries := []*Contact{
		makeContact(2, "marty@hv.edu", "555-0100", now.Add(time.Minute)),
		makeContact(3, "", "555-0199", now.Add(2*time.Minute)),
	}

	result := NewConsolidatedContact(primary, secondaries)

	assert.Equal(t, int64(1), result.PrimaryContactID)
	assert.Equal(t, []string{"doc@hv.edu", "marty@hv.edu"}, result.Emails)
	assert.Equal(t, []string{"555-0100", "555-0199"}, result.PhoneNumbers)
	assert.Equal(t, []int64{2, 3}, result.SecondaryContactIDs)
}

func TestNewConsolidatedContact_SortsSecondariesByCreationThenID(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	primary := makeContact(1, "a@t", "", now)
	primary.LinkPrecedence = LinkPrecedencePrimary

	// Passed out of order, with a created_at tie between ids 2 and 3.
	secondaries := []*Contact{
		makeContact(5, "e@t", "", now.Add(2*time.Minute)),
		makeContact(3, "c@t", "", now.Add(time.Minute)),
		makeContact(2, "b@t", "", now.Add(time.Minute)),
	}

	result := NewConsolidatedContact(primary, secondaries)

	assert.Equal(t, []int64{2, 3, 5}, result.SecondaryContactIDs)
	assert.Equal(t, []string{"a@t", "b@t", "c@t", "e@t"}, result.Emails)
}

func TestNewConsolidatedContact_EmptyArraysNotNil(t *testing.T) {
	now := time.Now()
	primary := makeContact(1, "", "100", now)
	primary.LinkPrecedence = LinkPrecedencePrimary

	result := NewConsolidatedContact(primary, nil)

	assert.NotNil(t, result.Emails)
	assert.Empty(t, result.Emails)
	assert.Equal(t, []string{"100"}, result.PhoneNumbers)
	assert.NotNil(t, result.SecondaryContactIDs)
	assert.Empty(t, result.SecondaryContactIDs)
}

func TestContactMatches(t *testing.T) {
	c := makeContact(1, "doc@hv.edu", "555-0100", time.Now())

	assert.True(t, c.Matches(strPtr("doc@hv.edu"), strPtr("555-0100")))
	assert.False(t, c.Matches(strPtr("doc@hv.edu"), nil))
	assert.False(t, c.Matches(nil, strPtr("555-0100")))
	assert.False(t, c.Matches(strPtr("other@hv.edu"), strPtr("555-0100")))

	phoneOnly := makeContact(2, "", "555-0100", time.Now())
	assert.True(t, phoneOnly.Matches(nil, strPtr("555-0100")))
	assert.False(t, phoneOnly.Matches(strPtr("doc@hv.edu"), strPtr("555-0100")))
}

func TestIdentifyRequestFromJSON(t *testing.T) {
	t.Run("string phone", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.FromJSON(strings.NewReader(`{"email":"doc@hv.edu","phoneNumber":"555-0100"}`))
		require.NoError(t, err)
		require.NotNil(t, req.Email)
		require.NotNil(t, req.Phone)
		assert.Equal(t, "doc@hv.edu", *req.Email)
		assert.Equal(t, "555-0100", *req.Phone)
	})

	t.Run("numeric phone is stringified", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.FromJSON(strings.NewReader(`{"phoneNumber":5550100}`))
		require.NoError(t, err)
		require.NotNil(t, req.Phone)
		assert.Equal(t, "5550100", *req.Phone)
	})

	t.Run("null phone", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.FromJSON(strings.NewReader(`{"email":"doc@hv.edu","phoneNumber":null}`))
		require.NoError(t, err)
		assert.Nil(t, req.Phone)
	})

	t.Run("empty body", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.FromJSON(strings.NewReader(``))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("boolean phone rejected", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.FromJSON(strings.NewReader(`{"phoneNumber":true}`))
		require.Error(t, err)
	})
}

func TestIdentifyRequestValidate(t *testing.T) {
	t.Run("normalizes email", func(t *testing.T) {
		req := &IdentifyRequest{Email: strPtr("  Doc@HV.edu ")}
		require.NoError(t, req.Validate())
		assert.Equal(t, "doc@hv.edu", *req.Email)
	})

	t.Run("trims phone but preserves form", func(t *testing.T) {
		req := &IdentifyRequest{Phone: strPtr(" 555-0100 ")}
		require.NoError(t, req.Validate())
		assert.Equal(t, "555-0100", *req.Phone)
	})

	t.Run("both absent rejected", func(t *testing.T) {
		req := &IdentifyRequest{}
		err := req.Validate()
		require.Error(t, err)
		var validation ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("blank fields count as absent", func(t *testing.T) {
		req := &IdentifyRequest{Email: strPtr("  "), Phone: strPtr("")}
		require.Error(t, req.Validate())
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		req := &IdentifyRequest{Email: strPtr("not-an-email")}
		require.Error(t, req.Validate())
	})

	t.Run("email too long rejected", func(t *testing.T) {
		local := strings.Repeat("a", 320)
		req := &IdentifyRequest{Email: strPtr(local + "@hv.edu")}
		require.Error(t, req.Validate())
	})

	t.Run("phone with letters rejected", func(t *testing.T) {
		req := &IdentifyRequest{Phone: strPtr("CALL-ME")}
		require.Error(t, req.Validate())
	})

	t.Run("phone with allowed punctuation accepted", func(t *testing.T) {
		req := &IdentifyRequest{Phone: strPtr("+1 (555) 010-0")}
		require.NoError(t, req.Validate())
	})

	t.Run("phone too long rejected", func(t *testing.T) {
		req := &IdentifyRequest{Phone: strPtr(strings.Repeat("1", 21))}
		require.Error(t, req.Validate())
	})
}
