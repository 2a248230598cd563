package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAadhaar(t *testing.T) {
	assert.True(t, ValidateAadhaar("123456789012"))
	assert.False(t, ValidateAadhaar("12345678901"))   // 11 digits
	assert.False(t, ValidateAadhaar("1234567890123")) // 13 digits
	assert.False(t, ValidateAadhaar("12345678901a"))
	assert.False(t, ValidateAadhaar(""))
}

func TestValidateMobile(t *testing.T) {
	assert.True(t, ValidateMobile("9876543210"))
	assert.False(t, ValidateMobile("987654321"))
	assert.False(t, ValidateMobile("+919876543210"))
}

func TestValidatePincode(t *testing.T) {
	assert.True(t, ValidatePincode("302001"))
	assert.False(t, ValidatePincode("3020"))
	assert.False(t, ValidatePincode("30200a"))
}

func TestValidateIFSC(t *testing.T) {
	assert.True(t, ValidateIFSC("SBIN0001234"))
	assert.True(t, ValidateIFSC("HDFC0A1B2C3"))
	assert.False(t, ValidateIFSC("SBIN1001234")) // fifth character must be 0
	assert.False(t, ValidateIFSC("sbin0001234"))
	assert.False(t, ValidateIFSC("SBIN000123"))
}

func TestFormatValidationErrorUsesJSONNames(t *testing.T) {
	type nested struct {
		AadhaarNumber string `json:"aadhaarNumber" validate:"required,aadhaar"`
		IFSCCode      string `json:"ifscCode" validate:"required,ifsc"`
	}
	type payload struct {
		PersonalDetails nested `json:"personalDetails"`
		FullName        string `json:"fullName" validate:"required,min=2"`
	}

	err := ValidateStruct(&payload{
		PersonalDetails: nested{AadhaarNumber: "123", IFSCCode: "bad"},
	})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "must be a valid 12-digit Aadhaar number", fields["personalDetails.aadhaarNumber"])
	assert.Equal(t, "must be a valid IFSC code", fields["personalDetails.ifscCode"])
	assert.Contains(t, fields, "fullName")
}

func TestFormatValidationErrorCollectsAllFields(t *testing.T) {
	type payload struct {
		Mobile  string `json:"mobile" validate:"required,mobile"`
		Pincode string `json:"pincode" validate:"required,pincode"`
		Email   string `json:"email" validate:"omitempty,email"`
	}

	err := ValidateStruct(&payload{Mobile: "1", Pincode: "2", Email: "not-an-email"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Len(t, fields, 3)
}
