// Command tourdata enriches concert history CSV exports with artist genres
// and US states resolved from public lookup services.
package main
