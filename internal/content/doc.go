// Package content holds the site content the dashboard manages: the catalog
// (categories, items, popular products), presentation pieces (banner,
// gallery, offers), branches, contact submissions, and the general settings
// row.
package content
