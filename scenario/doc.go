// Package scenario loads the orchestrator configuration and decides which
// overlay scenarios apply to a run.
//
// The orchestrator config (conventionally template/scenario/config.json)
// lists scenarios, each naming an overlay directory, a merge priority, the
// environment variables it requires, and a trigger. [Activate] evaluates
// the triggers against an [Env] snapshot and orders the winners by
// priority descending, so the default scenario (priority 9999) merges
// first and the smallest priority number merges last and wins conflicts.
//
// Triggers come in three kinds: "default" always fires, "user" fires when
// the scenario selection variable equals the scenario value, and "env"
// fires when its regex conditions match the environment per the trigger
// logic (and/or).
//
// [ValidateEnv] enforces each active scenario's required variables before
// any file is produced; a missing variable aborts the whole run with
// [ErrMissingEnvVars].
package scenario
