// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel, AggregateModel and ChildModel
// - identity.go: users and user_roles
// - partner.go: customers, addresses and address_links
// - trade.go: quotations and sales orders with their item rows
// - finance.go: payment entries, references and mode of payment accounts
// - automation.go: ticket automations and their quotation rows
package models
