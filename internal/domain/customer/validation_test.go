package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		wantKind Kind
		wantOK   bool
	}{
		{
			name:   "valid draft",
			draft:  Draft{Name: "Nguyễn Văn An", Phone: "0901234567", Email: "an@example.com"},
			wantOK: true,
		},
		{
			name:   "phone with separators",
			draft:  Draft{Name: "Tran Thi B", Phone: "090 123-4567", Email: "b@example.vn"},
			wantOK: true,
		},
		{
			name:     "digits in name",
			draft:    Draft{Name: "R2D2", Phone: "0901234567", Email: "r@example.com"},
			wantKind: KindInvalidName,
		},
		{
			name:     "short phone",
			draft:    Draft{Name: "An", Phone: "09012", Email: "an@example.com"},
			wantKind: KindInvalidPhone,
		},
		{
			name:     "letters in phone",
			draft:    Draft{Name: "An", Phone: "09012abc67", Email: "an@example.com"},
			wantKind: KindInvalidPhone,
		},
		{
			name:     "email without domain dot",
			draft:    Draft{Name: "An", Phone: "0901234567", Email: "an@localhost"},
			wantKind: KindInvalidEmail,
		},
		{
			name:     "email with display name",
			draft:    Draft{Name: "An", Phone: "0901234567", Email: "An <an@example.com>"},
			wantKind: KindInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draft)
			if tt.wantOK {
				require.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantKind, vErr.Kind)
		})
	}
}

func TestClassifyRejection(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		message string
		want    Kind
	}{
		{name: "reason code wins", reason: "duplicate_phone", message: "email is bad", want: KindDuplicatePhone},
		{name: "duplicate email by message", message: "Email already exists", want: KindDuplicateEmail},
		{name: "invalid email by message", message: "Invalid email format", want: KindInvalidEmail},
		{name: "duplicate phone by message", message: "Phone number already registered", want: KindDuplicatePhone},
		{name: "invalid phone by message", message: "phone must have 10 digits", want: KindInvalidPhone},
		{name: "invalid name by message", message: "Name contains invalid characters", want: KindInvalidName},
		{name: "unknown", message: "database unavailable", want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRejection(tt.reason, tt.message)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestValidationError_Messages(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range []Kind{KindInvalidEmail, KindDuplicateEmail, KindInvalidPhone, KindDuplicatePhone, KindInvalidName} {
		msg := (&ValidationError{Kind: k}).Error()
		require.NotEmpty(t, msg)
		prev, dup := seen[msg]
		assert.False(t, dup, "kinds %s and %s share a message", prev, k)
		seen[msg] = k
	}

	raw := &ValidationError{Kind: KindOther, Raw: "database unavailable"}
	assert.Equal(t, "database unavailable", raw.Error())
}

func TestDraft_Complete(t *testing.T) {
	assert.True(t, Draft{Name: "A", Phone: "1", Email: "e"}.Complete())
	assert.False(t, Draft{Name: "A", Phone: "  ", Email: "e"}.Complete())
	assert.False(t, Draft{}.Complete())
}
