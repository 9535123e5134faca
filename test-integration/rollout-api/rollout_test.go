package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/patchstream/rollout-server/internal/adminapi"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/httpclient"
	"github.com/patchstream/rollout-server/internal/rollout"
	"github.com/patchstream/rollout-server/internal/tracking"
	"github.com/patchstream/rollout-server/test-integration/rollout-api/helpers"
)

// immediatePolicy builds a policy with no cooling-off period, so an update
// approved by a run is considered for promotion in the same run.
func immediatePolicy() *config.PolicyConfig {
	return &config.PolicyConfig{
		TestGroups:       []string{"g-test"},
		ProductionGroups: []string{"g-prod-1", "g-prod-2"},
		Classifications:  []string{"Security Updates"},
		CoolingOffDays:   0,
	}
}

var _ = Describe("Rollout Lifecycle", Label("rollout"), func() {
	const taskName = "workstations"

	var (
		tempDir string
		admin   *helpers.AdminServer
		store   tracking.Store
		engine  rollout.Engine
	)

	BeforeEach(func() {
		tempDir = createTempDir("rollout-test-")
		admin = helpers.NewAdminServer()
		store = tracking.NewFileStore(tempDir)

		client := adminapi.NewHTTPClient(admin.URL(), httpclient.NewDefaultClient(5*time.Second))
		engine = rollout.NewEngine(client, store)
	})

	AfterEach(func() {
		admin.Close()
		cleanupTempDir(tempDir)
	})

	It("approves and promotes a matching update in a single run when no cooling-off is configured", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-2", Title: "Vendor Driver Pack", ReferenceCode: "KB9001", Classification: "Drivers",
		})
		admin.SetOutcome("u-1", adminapi.InstallationOutcome{Installed: 10})

		result := engine.RunTask(ctx, taskName, immediatePolicy())

		Expect(result.Success).To(BeTrue())
		Expect(result.NewApprovals).To(Equal(1))
		Expect(result.Promotions).To(Equal(1))
		Expect(result.Blocked).To(BeZero())
		Expect(result.OpenEntries).To(BeZero())

		// Test group first, then the production groups in policy order
		Expect(admin.ApprovalsFor("u-1")).To(Equal([]string{"g-test", "g-prod-1", "g-prod-2"}))
		// Wrong classification, never touched
		Expect(admin.ApprovalsFor("u-2")).To(BeEmpty())

		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry := set.Find("u-1")
		Expect(entry).NotTo(BeNil())
		Expect(entry.Status).To(Equal(tracking.StatusPromoted))
		Expect(entry.PromotedAt).NotTo(BeNil())
		Expect(entry.Title).To(Equal("2026-08 Security Update"))
		Expect(entry.ReferenceCode).To(Equal("KB5001"))
		Expect(entry.SuccessfulInstallations).To(Equal(10))
	})

	It("keeps an update in testing until the cooling-off period elapses", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})

		policy := immediatePolicy()
		policy.CoolingOffDays = 7

		first := engine.RunTask(ctx, taskName, policy)
		Expect(first.Success).To(BeTrue())
		Expect(first.NewApprovals).To(Equal(1))
		Expect(first.Promotions).To(BeZero())
		Expect(first.OpenEntries).To(Equal(1))

		// A second run must not re-approve the tracked update
		second := engine.RunTask(ctx, taskName, policy)
		Expect(second.Success).To(BeTrue())
		Expect(second.NewApprovals).To(BeZero())
		Expect(second.Promotions).To(BeZero())
		Expect(second.OpenEntries).To(Equal(1))

		Expect(admin.ApprovalsFor("u-1")).To(Equal([]string{"g-test"}))

		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry := set.Find("u-1")
		Expect(entry).NotTo(BeNil())
		Expect(entry.Status).To(Equal(tracking.StatusInTesting))
		Expect(entry.EligibleForPromotionAt).To(BeTemporally("==", entry.ApprovedForTestAt.AddDate(0, 0, 7)))
	})

	It("blocks an update below the success threshold and promotes it once installations catch up", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})
		admin.SetOutcome("u-1", adminapi.InstallationOutcome{Installed: 2, Pending: 3})

		policy := immediatePolicy()
		policy.RequireSuccessfulInstallations = true
		policy.MinimumSuccessfulInstallations = 5

		first := engine.RunTask(ctx, taskName, policy)
		Expect(first.Success).To(BeTrue())
		Expect(first.NewApprovals).To(Equal(1))
		Expect(first.Blocked).To(Equal(1))
		Expect(first.Promotions).To(BeZero())

		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry := set.Find("u-1")
		Expect(entry).NotTo(BeNil())
		Expect(entry.Status).To(Equal(tracking.StatusBlocked))
		Expect(entry.StatusMessage).To(Equal("Insufficient successful installations: 2/5"))
		Expect(admin.ApprovalsFor("u-1")).To(Equal([]string{"g-test"}))

		// More machines report success; the next run reconsiders the entry
		admin.SetOutcome("u-1", adminapi.InstallationOutcome{Installed: 6})

		second := engine.RunTask(ctx, taskName, policy)
		Expect(second.Success).To(BeTrue())
		Expect(second.NewApprovals).To(BeZero())
		Expect(second.Blocked).To(BeZero())
		Expect(second.Promotions).To(Equal(1))

		set, err = store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry = set.Find("u-1")
		Expect(entry.Status).To(Equal(tracking.StatusPromoted))
		Expect(entry.SuccessfulInstallations).To(Equal(6))
		Expect(admin.ApprovalsFor("u-1")).To(Equal([]string{"g-test", "g-prod-1", "g-prod-2"}))
	})

	It("blocks an update that exceeds the failure budget", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})
		admin.SetOutcome("u-1", adminapi.InstallationOutcome{Installed: 8, Failed: 3})

		policy := immediatePolicy()
		policy.AbortOnFailures = true
		policy.MaxAllowedFailures = 2

		result := engine.RunTask(ctx, taskName, policy)
		Expect(result.Success).To(BeTrue())
		Expect(result.Blocked).To(Equal(1))
		Expect(result.Promotions).To(BeZero())

		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry := set.Find("u-1")
		Expect(entry).NotTo(BeNil())
		Expect(entry.Status).To(Equal(tracking.StatusBlocked))
		Expect(entry.StatusMessage).To(Equal("Too many failures: 3 (max: 2)"))
		Expect(entry.FailedInstallations).To(Equal(3))
	})

	It("declines a promoted update the server reports as superseded", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})
		admin.SetSuperseded("u-1", true)

		policy := immediatePolicy()
		policy.DeclineSupersededUpdates = true

		result := engine.RunTask(ctx, taskName, policy)
		Expect(result.Success).To(BeTrue())
		Expect(result.Promotions).To(Equal(1))

		Expect(admin.Declines()).To(ContainElement("u-1"))

		// The decline never reverts the promotion
		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Find("u-1").Status).To(Equal(tracking.StatusPromoted))
	})

	It("fails the run when the policy has no production groups", func() {
		admin.AddUpdate(adminapi.UpdateSummary{
			ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
		})

		policy := immediatePolicy()
		policy.ProductionGroups = nil

		result := engine.RunTask(ctx, taskName, policy)
		Expect(result.Success).To(BeFalse())
		Expect(result.Err).NotTo(BeNil())
		Expect(result.Err.Type).To(Equal(rollout.ErrorTypeConfig))
		Expect(result.Err.Message).To(ContainSubstring("no production groups"))
		Expect(result.NewApprovals).To(Equal(1))

		// The approval phase completed and was saved before the failure
		set, err := store.Load(ctx, taskName)
		Expect(err).NotTo(HaveOccurred())
		entry := set.Find("u-1")
		Expect(entry).NotTo(BeNil())
		Expect(entry.Status).To(Equal(tracking.StatusInTesting))
	})
})
