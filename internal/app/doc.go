// Package app assembles one runnable agent server from configuration. The
// object graph (logger, model, tools, retriever, executor, HTTP handler) is
// wired with go.uber.org/dig; callers only see Server.
package app
