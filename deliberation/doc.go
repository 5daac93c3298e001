// Package deliberation turns structured context plus a free-text reasoning
// response into an accept/reject Verdict.
//
// A workflow implements Deliberation[C]: Render builds a prompt from a
// context value of type C, Parse reduces the reasoning capability's reply to
// a Verdict or fails with core.ErrSchemaViolation. Both are pure and safe for
// concurrent use. Deliberate chains Render, a brain.Brain and Parse once;
// re-prompting on a schema violation is left to the caller.
//
// Two workflows ship with the package:
//
//   - Optimizer asks, before execution, whether a list of single-line plans
//     satisfies a request. The reply must carry exactly one [Accept] or
//     [Reject] token.
//   - Reviewer asks, after execution, whether one action's result was
//     acceptable. The reply ends with Accepted or Rejected; when the token
//     occurs more than once the last occurrence decides.
package deliberation
