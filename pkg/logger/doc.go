// Package logger provides the logging facade. A Logger builds one
// structured record per call, encodes it once, and hands the encoded
// form to every configured sink independently. A failing sink never
// affects the others.
//
// Loggers are constructed explicitly with New; there is no package
// level singleton. Each record is enriched with the logger's default
// fields, its instance ID, and the metadata provider's app, platform
// and device values.
package logger
