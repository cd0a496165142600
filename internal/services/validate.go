package services

import "github.com/go-playground/validator/v10"

// Shared validator for request DTO tag rules. Cross-field and enum rules
// stay in the service methods.
var validate = validator.New()

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return invalid("invalid request", fields...)
	}
	return nil
}
