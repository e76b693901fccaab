package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apivet/apivet/pkg/contract"
	"github.com/apivet/apivet/test/api"
)

var _ = Describe("Enum Validation", func() {
	Context("When the server accepts out-of-set enum values", func() {
		It("should fail the create operation", func() {
			runner := runVerification(api.Options{SkipEnumValidation: true}, true)

			failures := runner.Failures()
			Expect(failures).To(HaveLen(1))
			Expect(failures[0]).To(ContainSubstring("POST /widgets"))
			Expect(failures[0]).To(ContainSubstring("Expected 400 for invalid enum value, got 201"))
		})

		It("should record every accepted rejection case with the full diagnostic", func() {
			runner := runVerification(api.Options{SkipEnumValidation: true}, true)

			var failed []contract.Result

			for _, result := range runner.Results() {
				if !result.Success {
					failed = append(failed, result)
				}
			}

			// The documented "reject" example and the synthesized
			// invalid-status variant both slipped through.
			Expect(failed).To(HaveLen(2))

			for _, result := range failed {
				Expect(result.ExpectedStatus).To(Equal(400))
				Expect(result.ExpectedBody).To(Equal("400 Bad Request (invalid enum value)"))
				Expect(result.Error).To(ContainSubstring("return 400 Bad Request"))
			}
		})

		It("should still enforce rejection in a lenient run", func() {
			runner := runVerification(api.Options{SkipEnumValidation: true}, false)

			failures := runner.Failures()
			Expect(failures).To(HaveLen(1))
			Expect(failures[0]).To(ContainSubstring("Expected 400 for invalid enum value"))
		})
	})
})
