package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type credentialsInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty" validate:"max=5"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	violations := ValidateStruct(credentialsInput{Email: "a@test.fr", Password: "pw"})
	assert.Empty(t, violations)
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	violations := ValidateStruct(credentialsInput{})

	assert.Equal(t, []Violation{
		{PropertyPath: "email", Message: MsgNotBlank},
		{PropertyPath: "password", Message: MsgNotBlank},
	}, violations)
}

func TestValidateStruct_EmailFormat(t *testing.T) {
	violations := ValidateStruct(credentialsInput{Email: "invalid-email", Password: "pw"})

	assert.Equal(t, map[string]string{"email": MsgInvalidEmail}, ViolationMap(violations))
}

func TestValidateStruct_MaxLength(t *testing.T) {
	violations := ValidateStruct(credentialsInput{Email: "a@test.fr", Password: "pw", Name: "toolong"})

	assert.Equal(t, map[string]string{"name": MsgTooLong}, ViolationMap(violations))
}
