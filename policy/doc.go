// Package policy defines the safety policy shared by the control plane and
// the tool registry.
//
// A Policy is built once at process start from configuration and is
// read-only afterwards. It answers four questions: is this action
// whitelisted, is the parameter count within the ceiling, may this path be
// written or deleted, and may this shell command run. Path checks are pure
// string-prefix tests on the canonicalized absolute path, performed before
// any filesystem mutation.
package policy
