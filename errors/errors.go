package errors

import (
	Errors "errors"
	"log"

	"robosnap_server/global"
	"robosnap_server/schemas"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// HandleFatalError handles global error
func HandleFatalError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// HandleBasicError handles basic error and logs
func HandleBasicError(err error) bool {
	if err != nil {
		global.InternalLogger.Println(err)
		return true
	}
	return false
}

// HandleComplexError handles complex errors and logs
func HandleComplexError(problem string, err string) error {
	global.MonitorLogger.Println("Complex error; Problem: " + problem + "; Error: " + err)
	return Errors.New("Problem: " + problem + "; Error: " + err)
}

// HandleInternalError handles internal errors (things that should never happen in normal circumstances)
func HandleInternalError(c *fiber.Ctx, problem string, err string) error {
	global.InternalLogger.Println("IP: " + c.IP() + "; Problem: " + problem + "; Error: " + err)
	return c.Status(fiber.StatusInternalServerError).JSON(schemas.ErrorResponse{
		Error: true,
		Type:  string(CodeTransportFailure),
	})
}

// HandleBadRequestError handles bad request errors (client error that is harmless to server and state)
func HandleBadRequestError(c *fiber.Ctx, problem string, description string) error {
	global.MonitorLogger.Println("Bad Request; Problem: " + problem + "; Description: " + description)
	return c.Status(fiber.StatusBadRequest).JSON(schemas.ErrorResponse{
		Error:       true,
		Type:        string(CodeInvalidArgument),
		Problem:     problem,
		Description: description,
	})
}

// HandleInvalidRequestError handles invalid request errors (expected errors)
func HandleInvalidRequestError(c *fiber.Ctx, code Code, problem string) error {
	return c.Status(fiber.StatusAccepted).JSON(schemas.ErrorResponse{
		Error:   true,
		Type:    string(code),
		Problem: problem,
	})
}

// HandleUnauthorizedError handles requests without a usable access token
func HandleUnauthorizedError(c *fiber.Ctx, description string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(schemas.ErrorResponse{
		Error:       true,
		Type:        string(CodeUnauthorized),
		Problem:     "AccessToken",
		Description: description,
	})
}

// HandleValidatorError handles errors when validating request
func HandleValidatorError(c *fiber.Ctx, err error) error {
	var validatorErrs validator.ValidationErrors
	if !Errors.As(err, &validatorErrs) || len(validatorErrs) == 0 {
		return HandleBadRequestError(c, "Body", "invalid")
	}
	return HandleBadRequestError(c, validatorErrs[0].StructField(), validatorErrs[0].Tag())
}

// HandleBadJsonError handles json request parser errors
func HandleBadJsonError(c *fiber.Ctx) error {
	return HandleBadRequestError(c, "JSON body", "invalid")
}

// HandleServiceError maps a domain error onto the responders above
func HandleServiceError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !Errors.As(err, &appErr) {
		return HandleInternalError(c, "unclassified", err.Error())
	}
	switch appErr.Code {
	case CodeInvalidArgument:
		return HandleBadRequestError(c, appErr.Problem, "invalid")
	case CodeUnauthorized:
		return HandleUnauthorizedError(c, appErr.Problem)
	case CodeTransportFailure:
		return HandleInternalError(c, appErr.Problem, err.Error())
	default:
		return HandleInvalidRequestError(c, appErr.Code, appErr.Problem)
	}
}
