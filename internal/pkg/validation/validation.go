package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	aadhaarRegex = regexp.MustCompile(`^[0-9]{12}$`)
	mobileRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	pincodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
	ifscRegex    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	accountRegex = regexp.MustCompile(`^[0-9]{9,18}$`)
)

func init() {
	validate = validator.New()
	// Report fields under their json names so error keys match the wire
	// contract (IFSCCode -> ifscCode)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("aadhaar", func(fl validator.FieldLevel) bool {
		return aadhaarRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ifscRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("bankaccount", func(fl validator.FieldLevel) bool {
		return accountRegex.MatchString(fl.Field().String())
	})
}

// ValidateStruct runs the registered rules against s
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateAadhaar reports whether aadhaar is exactly 12 numeric digits
func ValidateAadhaar(aadhaar string) bool {
	return aadhaarRegex.MatchString(aadhaar)
}

// ValidateMobile reports whether mobile is exactly 10 numeric digits
func ValidateMobile(mobile string) bool {
	return mobileRegex.MatchString(mobile)
}

// ValidatePincode reports whether pincode is exactly 6 numeric digits
func ValidatePincode(pincode string) bool {
	return pincodeRegex.MatchString(pincode)
}

// ValidateIFSC reports whether code matches the IFSC pattern
func ValidateIFSC(code string) bool {
	return ifscRegex.MatchString(code)
}

// FormatValidationError flattens validator errors into field -> message,
// covering every offending field
func FormatValidationError(err error) map[string]string {
	fields := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = "invalid request"
		return fields
	}

	for _, fieldError := range validationErrors {
		field := fieldPath(fieldError.Namespace())
		switch fieldError.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = "invalid email format"
		case "aadhaar":
			fields[field] = "must be a valid 12-digit Aadhaar number"
		case "mobile":
			fields[field] = "must be a valid 10-digit mobile number"
		case "pincode":
			fields[field] = "must be a valid 6-digit pincode"
		case "ifsc":
			fields[field] = "must be a valid IFSC code"
		case "bankaccount":
			fields[field] = "must be a valid bank account number"
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return fields
}

// fieldPath strips the top-level struct name from a validator namespace
// (SubmitVictimInput.personalDetails.aadhaarNumber ->
// personalDetails.aadhaarNumber). Segments are already json names thanks to
// the registered tag name function.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
