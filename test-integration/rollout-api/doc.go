// Package integration provides integration tests for the rollout API server.
// These tests validate the complete server lifecycle against a fake patch
// administration server, covering the approval and promotion phases, tracking
// storage, and the status API.
package integration
