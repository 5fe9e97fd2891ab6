// Package events carries task change notifications from the service layer to
// interested handlers without coupling the two.
//
// The service emits a TaskEvent after every create, update and delete. The
// in-memory emitter fans it out to registered handlers such as the audit log.
package events
