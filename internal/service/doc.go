// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the task
// store (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. TaskService:
//   - Lists tasks for a view, creates, updates and deletes them
//   - Summarizes tasks per project
//
// 2. Dependency Management:
//   - Services receive dependencies through constructor injection
//   - The clock and id generator are replaceable for tests
//
// 3. Error Handling:
//   - Store sentinels are translated to service sentinels
//   - Domain validation errors pass through unchanged
//
// The service layer depends on domain entities and the store interfaces, but
// never on a specific storage backend.
package service
