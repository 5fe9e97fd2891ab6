// Package domain contains the task model and the rules that govern it:
// field normalization, year/month bucket resolution, view filtering, sorting
// and project summaries. Everything here is pure and works on plain values,
// independent of storage and transport.
package domain
