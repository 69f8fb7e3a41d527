// Package domain contains the core business entities of medlex: users,
// medical terms, phrases and the categories that group them. Entities
// validate themselves; nothing here knows about storage or HTTP.
package domain
