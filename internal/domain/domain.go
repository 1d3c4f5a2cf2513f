// Package domain holds the wire-level types shared by the card schema, the
// merge engine, the media pipeline and the Course API client.
package domain
