package httpx

import "github.com/go-playground/validator/v10"

// ValidationFields flattens validator errors into a field → message map
// suitable for FieldProblem responses.
func ValidationFields(err error) map[string]string {
	fields := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "gte", "min":
			fields[fe.Field()] = "must not be negative"
		case "gt":
			fields[fe.Field()] = "must be greater than zero"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}
