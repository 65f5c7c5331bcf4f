// Package pat is a small physical analytical table. It estimates the access
// energy and area of SRAM arrays, the access energy of DRAM and the energy of
// integer adders from a handful of technology coefficients.
package pat

import (
	"errors"
	"math"
)

// Model holds the technology coefficients. Energies are in pJ and areas in
// um^2.
type Model struct {
	// SRAMBitEnergy is the energy to read one bit from a small array.
	SRAMBitEnergy float64

	// SRAMWireEnergy is the extra energy per bit per sqrt(row) of a bank,
	// which models the bit line and word line length.
	SRAMWireEnergy float64

	// SRAMCellArea is the area of one single-ported bit cell.
	SRAMCellArea float64

	// SRAMBankOverhead is the fixed peripheral area of a bank.
	SRAMBankOverhead float64

	// SecondPortEnergyFactor and SecondPortAreaFactor scale dual-ported
	// arrays.
	SecondPortEnergyFactor float64
	SecondPortAreaFactor   float64

	DRAMBitEnergy  float64
	AdderBitEnergy float64
}

// Defaults returns coefficients for a generic 45nm process.
func Defaults() Model {
	return Model{
		SRAMBitEnergy:          0.02,
		SRAMWireEnergy:         0.002,
		SRAMCellArea:           0.3,
		SRAMBankOverhead:       500,
		SecondPortEnergyFactor: 1.2,
		SecondPortAreaFactor:   1.6,
		DRAMBitEnergy:          8,
		AdderBitEnergy:         0.03,
	}
}

// Validate checks that no coefficient is negative.
func (m Model) Validate() error {
	coefficients := []float64{
		m.SRAMBitEnergy,
		m.SRAMWireEnergy,
		m.SRAMCellArea,
		m.SRAMBankOverhead,
		m.SecondPortEnergyFactor,
		m.SecondPortAreaFactor,
		m.DRAMBitEnergy,
		m.AdderBitEnergy,
	}

	for _, c := range coefficients {
		if c < 0 || math.IsNaN(c) {
			return errors.New("physical coefficients must be non-negative")
		}
	}

	return nil
}

func rowsPerBank(height, banks uint64) float64 {
	if banks == 0 {
		banks = 1
	}

	return math.Ceil(float64(height) / float64(banks))
}

// SRAMEnergy returns the energy of one access to a height x width array.
func (m Model) SRAMEnergy(height, width, banks, ports uint64) float64 {
	if height == 0 || width == 0 {
		return 0
	}

	perBit := m.SRAMBitEnergy +
		m.SRAMWireEnergy*math.Sqrt(rowsPerBank(height, banks))
	energy := perBit * float64(width)

	if ports > 1 {
		energy *= m.SecondPortEnergyFactor
	}

	return energy
}

// SRAMArea returns the area of a height x width array.
func (m Model) SRAMArea(height, width, banks, ports uint64) float64 {
	if height == 0 || width == 0 {
		return 0
	}

	cells := float64(height) * float64(width) * m.SRAMCellArea
	if ports > 1 {
		cells *= m.SecondPortAreaFactor
	}

	return cells + float64(max(banks, 1))*m.SRAMBankOverhead
}

// DRAMEnergy returns the energy of transferring bits to or from DRAM.
func (m Model) DRAMEnergy(bits uint64) float64 {
	return float64(bits) * m.DRAMBitEnergy
}

// AdderEnergy returns the energy of adding a bitsA-bit and a bitsB-bit value.
func (m Model) AdderEnergy(bitsA, bitsB uint64) float64 {
	return float64(max(bitsA, bitsB)) * m.AdderBitEnergy
}
