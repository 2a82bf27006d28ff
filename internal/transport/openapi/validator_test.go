package openapi_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport/openapi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOpenAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAPI Suite")
}

func schemaDetails(err error) []internal.ValidationError {
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue())
	ExpectWithOffset(1, appErr.StatusCode).To(Equal(400))
	details, ok := appErr.Details.(internal.ValidationErrors)
	ExpectWithOffset(1, ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("Validator", func() {
	var validator *openapi.Validator

	BeforeEach(func() {
		var err error
		validator, err = openapi.NewValidator(context.Background(), api.Spec)
		Expect(err).NotTo(HaveOccurred())
	})

	It("accepts a well formed submission", func() {
		body := []byte(`{
			"month": 2,
			"year": 2025,
			"monthly_leave_dates": ["2025-02-03"],
			"optional_leave_dates": [],
			"wfh_dates": ["2025-02-10"],
			"additional_hours": "",
			"pending_leaves": 3,
			"total_days_off_dates": []
		}`)
		Expect(validator.ValidateBody("SubmitLeaveRequest", body)).To(Succeed())
	})

	It("reports a missing required property", func() {
		err := validator.ValidateBody("SubmitLeaveRequest", []byte(`{"year": 2025}`))
		errs := schemaDetails(err)
		Expect(errs).NotTo(BeEmpty())
		Expect(errs[0].Code).To(Equal(string(internal.ErrCodeSchemaMismatch)))
	})

	It("reports wrong types and malformed dates", func() {
		err := validator.ValidateBody("SubmitLeaveRequest", []byte(`{"month": "feb", "year": 2025, "wfh_dates": ["10/02/2025"]}`))
		errs := schemaDetails(err)
		Expect(len(errs)).To(BeNumerically(">=", 2))
	})

	It("rejects a fractional month", func() {
		err := validator.ValidateBody("SubmitLeaveRequest", []byte(`{"month": 2.5, "year": 2025}`))
		Expect(err).To(HaveOccurred())
	})

	It("rejects bodies that are not JSON", func() {
		err := validator.ValidateBody("CreateEmployeeRequest", []byte(`name=tejas`))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("requires the employee fields on create", func() {
		err := validator.ValidateBody("CreateEmployeeRequest", []byte(`{"name": "Tejas"}`))
		Expect(schemaDetails(err)).NotTo(BeEmpty())
	})

	It("rejects an empty update", func() {
		err := validator.ValidateBody("UpdateEmployeeRequest", []byte(`{}`))
		Expect(err).To(HaveOccurred())
	})

	It("fails loudly for an unknown schema", func() {
		err := validator.ValidateBody("NoSuchSchema", []byte(`{}`))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
	})
})
