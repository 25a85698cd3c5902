package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crimson-sun/fairnorm/internal/model"
)

func TestEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"查詢: hr@example.com.hk", "hr@example.com.hk"},
		{"Contact jobs.fair+2024@labour.gov.hk or info@x.org", "jobs.fair+2024@labour.gov.hk"},
		{"no email here", ""},
		{"broken@domain", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.in), tt.in)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"電話：2582 8888", "2582 8888"},
		{"Tel: 25828888.", "25828888"},
		{"call +852 2582 8888 now", "+852 2582 8888"},
		{"call +852-25828888", "+852-25828888"},
		{"+85225828888", "+85225828888"},
		{"ref 123456789012", ""},
		{"2582  8888", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.in), tt.in)
	}
}

func TestExtractScansInOrder(t *testing.T) {
	got := Extract("Email: a@b.com", "Tel: 3456 7890 / c@d.com")
	assert.Equal(t, model.Contact{Email: "a@b.com", Phone: "3456 7890"}, got)

	assert.Equal(t, model.Contact{}, Extract("", "nothing"))
}
