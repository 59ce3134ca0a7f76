// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

// Type of a transaction.
type Type uint8

// Transaction types.
const (
	TypeAction Type = iota
	TypeControl
	TypeGenesis
)

// String implements stringer
func (t Type) String() string {
	switch t {
	case TypeAction:
		return "Action"
	case TypeControl:
		return "Control"
	case TypeGenesis:
		return "Genesis"
	default:
		return "Unknown"
	}
}

// HasControlPayload reports whether payload 0 carries a roster snapshot.
// Genesis is the first control transaction of a register.
func (t Type) HasControlPayload() bool {
	return t == TypeControl || t == TypeGenesis
}

// Priority of a transaction in the mempool. Higher seals first.
type Priority uint8

// Priorities. Genesis transactions are always High.
const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// String implements stringer
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}
