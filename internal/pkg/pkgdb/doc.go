// Package pkgdb opens the relational database used by the modules.
//
// The driver is chosen by name (sqlite, postgres or mysql) and the returned
// *gorm.DB already has its connection pool configured and its SQL logging
// routed through slog.
package pkgdb
