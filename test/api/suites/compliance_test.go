package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apivet/apivet/pkg/contract"
	"github.com/apivet/apivet/pkg/report"
	"github.com/apivet/apivet/test/api"
)

var _ = Describe("Compliant Implementation", func() {
	Context("When verifying a server that honours its document", func() {
		It("should pass a strict run with no failures", func() {
			runner := runVerification(api.Options{}, true)

			Expect(runner.Failures()).To(BeEmpty())

			// Two GETs, four POST cases (two documented examples plus a
			// generated representative and its invalid-status variant), one
			// PUT, one DELETE.
			results := runner.Results()
			Expect(results).To(HaveLen(8))

			for _, result := range results {
				Expect(result.Success).To(BeTrue(), "%s %s: %s", result.Method, result.Path, result.Error)
			}
		})

		It("should reject documented and generated invalid statuses with 400", func() {
			runner := runVerification(api.Options{}, true)

			var rejections []contract.Result

			for _, result := range runner.Results() {
				if result.ExpectedStatus == 400 {
					rejections = append(rejections, result)
				}
			}

			// The documented "reject" example and the synthesized
			// invalid-status variant.
			Expect(rejections).To(HaveLen(2))

			for _, rejection := range rejections {
				Expect(rejection.Success).To(BeTrue())
				Expect(rejection.ActualStatus).To(Equal(400))
			}
		})

		It("should resolve the update path from the response example", func() {
			runner := runVerification(api.Options{}, true)

			var puts []contract.Result

			for _, result := range runner.Results() {
				if result.Method == "PUT" {
					puts = append(puts, result)
				}
			}

			Expect(puts).To(HaveLen(1))
			Expect(puts[0].Path).To(Equal("/widgets/1"))
		})

		It("should render a fully green report", func() {
			runner := runVerification(api.Options{}, true)

			text := report.Text(runner.Results())
			Expect(text).To(ContainSubstring("OpenAPI Contract Test Report"))
			Expect(text).NotTo(ContainSubstring("❌"))

			markdown := report.Markdown(runner.Results())
			Expect(markdown).To(ContainSubstring("- **Total Tests:** 8"))
			Expect(markdown).To(ContainSubstring("- **Passed:** ✅ 8"))
			Expect(markdown).To(ContainSubstring("- **Failed:** ❌ 0"))
		})
	})
})
