// Package connectors provides implementations of the Connector interface
// for various external systems. Each connector knows how to validate
// credentials, test reachability and fetch changed documents from one
// source type (GitHub, Notion, Google Drive, Dropbox).
//
// Connectors are stateless and registered with the ConnectorRegistry at
// startup.
package connectors
