// Package preflight provides readiness checks for the filesystem paths and
// external services a run depends on.
//
// These checks run in two contexts:
//   - The workflow runs them before an apply run. If a required check fails,
//     the run stops before touching anything.
//   - The CLI "librairy config show" command displays them as service health.
//
// Directory and free-space checks are required; the classifier check is
// optional because an unreachable endpoint degrades to rule-based
// classification instead of blocking the run.
package preflight
