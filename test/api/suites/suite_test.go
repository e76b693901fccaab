package suites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apivet/apivet/pkg/contract"
	"github.com/apivet/apivet/pkg/document"
	"github.com/apivet/apivet/pkg/lint"
	"github.com/apivet/apivet/pkg/transport"
	"github.com/apivet/apivet/test/api"
)

var ctx context.Context

var _ = BeforeEach(func() {
	ctx = context.Background()
})

// startFixture serves the fixture over a loopback listener and returns a
// transport pointed at it.
func startFixture(opts api.Options) *transport.Client {
	fixture := httptest.NewServer(api.New(opts).Handler())
	DeferCleanup(fixture.Close)

	return transport.NewClient(fixture.URL, transport.DefaultTimeout, nil)
}

// fetchDocument pulls the published document over the wire, the same way the
// command line tool does.
func fetchDocument(client *transport.Client) *document.Document {
	resp, err := client.Send(ctx, http.MethodGet, "/openapi.json", nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.StatusCode).To(Equal(http.StatusOK))

	doc, err := document.Load(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	return doc
}

// runVerification executes a full verification run against a fresh fixture.
func runVerification(opts api.Options, strict bool) *contract.Runner {
	client := startFixture(opts)
	doc := fetchDocument(client)

	runner := contract.New(client, strict, nil)
	runner.ResetState(ctx)
	runner.Run(ctx, doc)

	return runner
}

func TestSuites(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contract Verification Suites")
}

var _ = Describe("Document Lint", func() {
	Context("When the fixture publishes its document", func() {
		It("should pass every lint check", func() {
			client := startFixture(api.Options{})
			doc := fetchDocument(client)

			Expect(lint.Check(doc)).To(BeEmpty())
		})
	})
})
