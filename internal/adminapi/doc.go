// Package adminapi provides the client for the patch management server's
// admin API. The rollout engine and the CLI consume the Client interface;
// the HTTP implementation talks JSON over the shared httpclient.
package adminapi
