// Package atspi implements ports.NodeService over the AT-SPI accessibility
// bus using D-Bus.
package atspi
