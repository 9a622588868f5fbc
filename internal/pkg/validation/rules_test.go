package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"March", "March", true},
		{"march", "March", true},
		{" DECEMBER ", "December", true},
		{"Marchh", "", false},
		{"2024-03", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalMonth(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsYearMonth(t *testing.T) {
	assert.True(t, IsYearMonth("2023-10"))
	assert.False(t, IsYearMonth("2023-13"))
	assert.False(t, IsYearMonth("2023-1"))
	assert.False(t, IsYearMonth("October"))
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type payload struct {
		Month  string `validate:"month"`
		Period string `validate:"yearmonth"`
		Name   string `validate:"entityname"`
		Email  string `validate:"schoolemail"`
	}
	valid := payload{Month: "april", Period: "2024-04", Name: "Grade 1", Email: "amina@school.test"}

	tests := []struct {
		name    string
		mutate  func(p *payload)
		wantErr bool
	}{
		{"valid", func(p *payload) {}, false},
		{"abbreviated month", func(p *payload) { p.Month = "Apr" }, true},
		{"reversed period", func(p *payload) { p.Period = "04-2024" }, true},
		{"short name", func(p *payload) { p.Name = " a " }, true},
		{"email without tld", func(p *payload) { p.Email = "amina@school" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if tt.wantErr {
				assert.Error(t, v.Struct(p))
			} else {
				assert.NoError(t, v.Struct(p))
			}
		})
	}
}

func TestNameAndEmail(t *testing.T) {
	assert.True(t, IsValidName("Class 10"))
	assert.False(t, IsValidName(" a "))
	assert.True(t, IsValidEmail("Teacher@School.edu"))
	assert.False(t, IsValidEmail("teacher@school"))
}
