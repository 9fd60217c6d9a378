package exercise_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ctrlab/ctrlab/internal/exercise"
)

var _ = Describe("Registry", func() {
	It("lists the course exercises in order", func() {
		names := exercise.List()
		Expect(names).To(Equal([]string{
			"limit-cycle",
			"lqr-balance",
			"phase-portrait",
			"roa-cubic",
			"sysid-linear",
		}))
	})

	It("rejects unknown names", func() {
		_, err := exercise.Get("no-such-exercise")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Course exercises", func() {
	for _, name := range []string{
		"phase-portrait",
		"roa-cubic",
		"lqr-balance",
		"sysid-linear",
		"limit-cycle",
	} {
		name := name
		It("passes every check in "+name, func() {
			ex, err := exercise.Get(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.Name()).To(Equal(name))
			Expect(ex.Description()).NotTo(BeEmpty())

			report, err := ex.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Checks).NotTo(BeEmpty())
			for _, check := range report.Checks {
				Expect(check.Passed).To(BeTrue(), "check %q: got %g want %g", check.Name, check.Got, check.Want)
			}
			Expect(report.Score()).To(Equal(1.0))
			Expect(report.Passed()).To(BeTrue())
		})
	}
})

var _ = Describe("Reports", func() {
	It("scores partial passes fractionally", func() {
		report := &exercise.Report{
			Exercise: "demo",
			Checks: []exercise.Check{
				{Name: "a", Passed: true},
				{Name: "b", Passed: false},
			},
		}
		Expect(report.Score()).To(BeNumerically("~", 0.5))
		Expect(report.Passed()).To(BeFalse())
	})

	It("never passes an empty report", func() {
		report := &exercise.Report{Exercise: "empty"}
		Expect(report.Passed()).To(BeFalse())
	})
})
