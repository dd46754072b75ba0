package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"PERSON", "Person"},
		{"full_name", "FullName"},
		{"ORDER_LINE_ITEM", "OrderLineItem"},
		{"works-for", "WorksFor"},
		{"works for", "WorksFor"},
		{"  padded_value  ", "PaddedValue"},
		{"double__underscore", "DoubleUnderscore"},
		{"_leading", "Leading"},
		{"trailing_", "Trailing"},
		{"mIxEd_CaSe", "MixedCase"},
		{"a1_b2", "A1B2"},
		{"", ""},
		{"___", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassCase(tt.input))
		})
	}
}

func TestPropertyCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"full_name", "fullName"},
		{"name", "name"},
		{"works_for", "worksFor"},
		{"BIRTH_DATE", "birthDate"},
		{"member of", "memberOf"},
		{"x", "x"},
		{"", ""},
		{"--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, PropertyCase(tt.input))
		})
	}
}

func TestCasingIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "OrganizationUnit", ClassCase("organization_unit"))
		assert.Equal(t, "organizationUnit", PropertyCase("organization_unit"))
	}
}
