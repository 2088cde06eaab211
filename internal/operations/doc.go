// Package operations implements one orchestrator per API capability. Each
// orchestrator is a fixed pipeline: validate inputs, submit the request, for
// asynchronous capabilities drive the task poller to SUCCESS and fetch the
// result artifact by run id, then assemble the final output. Partial failure
// after submission is fatal with no cleanup of completed steps.
package operations
