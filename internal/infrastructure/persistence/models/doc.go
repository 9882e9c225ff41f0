// Package models contains GORM persistence models for the fulfillment ledger.
// Domain entities stay free of ORM tags; each model maps one table and
// converts to and from its domain counterpart.
//
//   - base.go: shared id/timestamp/version columns
//   - fulfillment.go: addresses, orders, order_items, payments, shipments
//   - outbox.go: transactional outbox rows
package models
