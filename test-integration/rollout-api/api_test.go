package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/patchstream/rollout-server/internal/adminapi"
	v0 "github.com/patchstream/rollout-server/internal/api/v0"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/service"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/test-integration/rollout-api/helpers"
)

// testServerConfig builds a single-task configuration pointing at the fake
// administration server. The long cooling-off period keeps approved updates
// in testing for the duration of a spec.
func testServerConfig(endpoint string) *config.Config {
	return &config.Config{
		ServerName: "integration-test",
		Server: config.ServerConfig{
			Endpoint: endpoint,
			Timeout:  "5s",
		},
		Tasks: []config.TaskConfig{
			{
				Name:     "workstations",
				Schedule: &config.ScheduleConfig{Interval: "1h"},
				Policy: config.PolicyConfig{
					TestGroups:       []string{"g-test"},
					ProductionGroups: []string{"g-prod"},
					Classifications:  []string{"Security Updates"},
					CoolingOffDays:   7,
				},
			},
		},
	}
}

var _ = Describe("Rollout API Server", Label("api"), func() {
	var (
		tempDir      string
		dataDir      string
		admin        *helpers.AdminServer
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("api-test-")
		dataDir = filepath.Join(tempDir, "data")
		Expect(os.MkdirAll(dataDir, 0o750)).To(Succeed())

		admin = helpers.NewAdminServer()
		admin.SetGroups([]adminapi.TargetGroup{
			{ID: "g-test", Name: "Test Ring", ComputerCount: 25},
			{ID: "g-prod", Name: "Workstations", ComputerCount: 400},
		})
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
		}
		admin.Close()
		cleanupTempDir(tempDir)
	})

	Context("System endpoints", func() {
		BeforeEach(func() {
			configFile := helpers.WriteConfig(tempDir, testServerConfig(admin.URL()))
			serverHelper = helpers.NewServerTestHelper(ctx, configFile, 18090, dataDir)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)
		})

		It("serves health, readiness, and version", func() {
			resp, err := serverHelper.GetHealth()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			_ = resp.Body.Close()

			resp, err = serverHelper.GetReadiness()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			_ = resp.Body.Close()

			resp, err = serverHelper.GetVersion()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var version map[string]string
			helpers.DecodeJSON(resp, &version)
			Expect(version).To(HaveKey("version"))
			Expect(version).To(HaveKey("go_version"))
		})

		It("lists the configured tasks with their policies", func() {
			resp, err := serverHelper.GetTasks()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var tasks v0.TaskListResponse
			helpers.DecodeJSON(resp, &tasks)
			Expect(tasks.Tasks).To(HaveLen(1))
			Expect(tasks.Tasks[0].Name).To(Equal("workstations"))
			Expect(tasks.Tasks[0].Interval).To(Equal("1h0m0s"))
			Expect(tasks.Tasks[0].Policy.TestGroups).To(Equal([]string{"g-test"}))
			Expect(tasks.Tasks[0].Policy.ProductionGroups).To(Equal([]string{"g-prod"}))
			Expect(tasks.Tasks[0].Policy.CoolingOffDays).To(Equal(7))
		})

		It("returns 404 for an unknown task", func() {
			resp, err := serverHelper.GetTask("no-such-task")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("rejects an invalid entry status filter", func() {
			resp, err := serverHelper.GetTaskEntriesByStatus("workstations", "Bogus")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Context("Coordinator-driven runs", func() {
		BeforeEach(func() {
			// Two updates match the task's classification filter, one does not
			admin.AddUpdate(adminapi.UpdateSummary{
				ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
			})
			admin.AddUpdate(adminapi.UpdateSummary{
				ID: "u-2", Title: "2026-08 Cumulative Security Update", ReferenceCode: "KB5002", Classification: "Security Updates",
			})
			admin.AddUpdate(adminapi.UpdateSummary{
				ID: "u-3", Title: "Vendor Driver Pack", ReferenceCode: "KB9001", Classification: "Drivers",
			})

			configFile := helpers.WriteConfig(tempDir, testServerConfig(admin.URL()))
			serverHelper = helpers.NewServerTestHelper(ctx, configFile, 18091, dataDir)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)
		})

		It("runs the task on startup and records the approvals", func() {
			// The coordinator finds the task due immediately and runs it
			Eventually(func() status.RunPhase {
				resp, err := serverHelper.GetTask("workstations")
				if err != nil {
					return ""
				}
				var task service.TaskStatus
				helpers.DecodeJSON(resp, &task)
				if task.LastRun == nil {
					return ""
				}
				return task.LastRun.Phase
			}, 15*time.Second, 200*time.Millisecond).Should(Equal(status.RunPhaseSucceeded))

			resp, err := serverHelper.GetTask("workstations")
			Expect(err).NotTo(HaveOccurred())
			var task service.TaskStatus
			helpers.DecodeJSON(resp, &task)
			Expect(task.LastRun.NewApprovals).To(Equal(2))
			Expect(task.LastRun.Promotions).To(BeZero())
			Expect(task.LastRun.RunID).NotTo(BeEmpty())

			// Both matching updates were approved for the test group only
			Expect(admin.ApprovalsFor("u-1")).To(Equal([]string{"g-test"}))
			Expect(admin.ApprovalsFor("u-2")).To(Equal([]string{"g-test"}))
			Expect(admin.ApprovalsFor("u-3")).To(BeEmpty())

			// The tracking entries are visible through the API
			resp, err = serverHelper.GetTaskEntries("workstations")
			Expect(err).NotTo(HaveOccurred())
			var entries v0.EntryListResponse
			helpers.DecodeJSON(resp, &entries)
			Expect(entries.Entries).To(HaveLen(2))
			for _, entry := range entries.Entries {
				Expect(string(entry.Status)).To(Equal("InTesting"))
				Expect(entry.TaskName).To(Equal("workstations"))
				Expect(entry.EligibleForPromotionAt).To(BeTemporally("~",
					entry.ApprovedForTestAt.AddDate(0, 0, 7), time.Minute))
			}

			// Nothing has been promoted yet
			resp, err = serverHelper.GetTaskEntriesByStatus("workstations", "Promoted")
			Expect(err).NotTo(HaveOccurred())
			var promoted v0.EntryListResponse
			helpers.DecodeJSON(resp, &promoted)
			Expect(promoted.Entries).To(BeEmpty())
		})
	})

	Context("Administration server authentication", func() {
		It("authenticates with the configured token file", func() {
			admin.RequireToken("s3cret-token")
			admin.AddUpdate(adminapi.UpdateSummary{
				ID: "u-1", Title: "2026-08 Security Update", ReferenceCode: "KB5001", Classification: "Security Updates",
			})

			cfg := testServerConfig(admin.URL())
			cfg.Server.APITokenFile = helpers.WriteTokenFile(tempDir, "s3cret-token")
			configFile := helpers.WriteConfig(tempDir, cfg)

			serverHelper = helpers.NewServerTestHelper(ctx, configFile, 18092, dataDir)
			Expect(serverHelper.StartServer()).To(Succeed())
			serverHelper.WaitForServerReady(10 * time.Second)

			// The initial run can only approve the update if the bearer
			// token was sent
			Eventually(func() []string {
				return admin.ApprovalsFor("u-1")
			}, 15*time.Second, 200*time.Millisecond).Should(Equal([]string{"g-test"}))
		})

		It("refuses to start against a server below the minimum version", func() {
			admin.SetVersion("11.2.0")

			cfg := testServerConfig(admin.URL())
			cfg.Server.MinVersion = "12.0.0"
			configFile := helpers.WriteConfig(tempDir, cfg)

			serverHelper = helpers.NewServerTestHelper(ctx, configFile, 18093, dataDir)
			err := serverHelper.StartServer()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("below minimum supported version"))
		})
	})
})
