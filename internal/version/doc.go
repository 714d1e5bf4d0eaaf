// Package version reports the namescout build. Values come from -ldflags when
// set, otherwise from the module and VCS data in runtime/debug.BuildInfo.
package version
