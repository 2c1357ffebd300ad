// Package models defines client-side data models used by the jobfit CLI:
// records returned by the REST API and events pushed over the realtime
// channel.
package models
