package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apivet/apivet/pkg/contract"
	"github.com/apivet/apivet/test/api"
)

var _ = Describe("Degraded Operation", func() {
	Context("When update answers 501 and the document declares it", func() {
		It("should accept the not-implemented response", func() {
			runner := runVerification(api.Options{NotImplementedPut: true}, true)

			Expect(runner.Failures()).To(BeEmpty())

			var puts []contract.Result

			for _, result := range runner.Results() {
				if result.Method == "PUT" {
					puts = append(puts, result)
				}
			}

			Expect(puts).To(HaveLen(1))
			Expect(puts[0].Success).To(BeTrue())
			Expect(puts[0].ActualStatus).To(Equal(501))
			Expect(puts[0].DocumentedStatuses).To(ContainElement(501))
		})
	})

	Context("When responses carry undocumented fields", func() {
		It("should fail a strict run", func() {
			runner := runVerification(api.Options{ExtraListField: true}, true)

			failures := runner.Failures()
			Expect(failures).To(HaveLen(1))
			Expect(failures[0]).To(ContainSubstring("GET /widgets"))
			Expect(failures[0]).To(ContainSubstring("extra key in actual response: 'revision'"))
		})

		It("should pass a lenient run", func() {
			runner := runVerification(api.Options{ExtraListField: true}, false)

			Expect(runner.Failures()).To(BeEmpty())
		})
	})
})
