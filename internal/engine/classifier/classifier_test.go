package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crimson-sun/fairnorm/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.Language
	}{
		{"", model.LangUnknown},
		{"   ", model.LangUnknown},
		{"2024-03-15 14:30", model.LangUnknown},
		{"請參加", model.LangZHHK},
		{"Join Now", model.LangEN},
		{"請Join", model.LangBoth},
		{"IT招聘日", model.LangBoth},
		{"招聘日 2024", model.LangZHHK},
		{"Café Expo", model.LangEN},
		{"！？。", model.LangUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text).Language, "Classify(%q)", tt.text)
	}
}

func TestClassifyCounts(t *testing.T) {
	got := Classify("請Join")
	assert.Equal(t, 1, got.Han)
	assert.Equal(t, 4, got.Latin)
}
