package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required"`
	Website string `json:"website_url" validate:"omitempty,url"`
	Hidden  string `json:"-"`
	Rating  int    `json:"rating" validate:"min=0,max=5"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	errs := v.Struct(&sample{Website: "not a url", Rating: 9})
	require.Len(t, errs, 3)

	fields := map[string]string{}
	for _, fe := range errs {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "website_url")
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields["name"], "required")
}

func TestStructValid(t *testing.T) {
	v := New()
	assert.Nil(t, v.Struct(&sample{Name: "Acme", Website: "https://acme.example", Rating: 5}))
}
