// Package api handles incoming HTTP requests, request decoding and response
// formatting. It acts as an adapter between the browser front end and the
// task and authentication services, translating HTTP concerns to service
// calls and service errors back to status codes.
package api
