// Package registry holds the process-wide tool registry.
//
// Tools register once at startup; the registry is read-only while serving.
// An optional allow-set narrows discovery and invocation to an explicit list
// of tool names, overriding each tool's Enabled flag.
package registry
