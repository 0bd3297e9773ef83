package mem_test

import (
	"testing"

	"cinterp/internal/mem"

	"github.com/stretchr/testify/require"
)

func TestAllocateAssignsDistinctAddresses(t *testing.T) {
	m := mem.New()

	a1, err := m.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, mem.FirstAddress, a1)

	a2, err := m.Allocate(2)
	require.NoError(t, err)
	require.Equal(t, mem.FirstAddress+mem.Stride, a2)

	v, err := m.Read(a1)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestReadUnallocatedIsSegFault(t *testing.T) {
	m := mem.New()
	_, err := m.Read(0xdead)
	require.Error(t, err)
	var sf mem.SegFaultError
	require.ErrorAs(t, err, &sf)
	require.Equal(t, int64(0xdead), sf.Addr)
	require.Contains(t, err.Error(), "0xdead")
}

func TestWriteRequiresExistingAddress(t *testing.T) {
	m := mem.New()
	err := m.Write(mem.FirstAddress, 5)
	require.Error(t, err)

	addr, err := m.Allocate(0)
	require.NoError(t, err)
	require.NoError(t, m.Write(addr, 42))

	v, err := m.Read(addr)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestAddressOfIsStableAndLazy(t *testing.T) {
	m := mem.New()
	a1, err := m.AddressOf("x", 7)
	require.NoError(t, err)

	a2, err := m.AddressOf("x", 999)
	require.NoError(t, err)
	require.Equal(t, a1, a2, "second AddressOf must not reallocate")

	v, err := m.Read(a1)
	require.NoError(t, err)
	require.Equal(t, 7, v, "second AddressOf call must not overwrite the existing cell")
}

func TestUpdateByNameNoopWithoutAddress(t *testing.T) {
	m := mem.New()
	m.UpdateByName("never-addressed", 1)
}

func TestUpdateByNameWritesThroughRecordedAddress(t *testing.T) {
	m := mem.New()
	addr, err := m.AddressOf("x", 1)
	require.NoError(t, err)

	m.UpdateByName("x", 2)
	v, err := m.Read(addr)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestAllocateAtUsedForArrayElements(t *testing.T) {
	m := mem.New()
	base, err := m.Allocate(0)
	require.NoError(t, err)

	elemAddr := base + mem.Stride*3
	require.NoError(t, m.AllocateAt(elemAddr, 99))

	v, err := m.Read(elemAddr)
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

func TestMemoryLimit(t *testing.T) {
	m := mem.New()
	m.Limit = 1

	_, err := m.Allocate(1)
	require.NoError(t, err)

	_, err = m.Allocate(2)
	require.Error(t, err)
	var limErr mem.LimitError
	require.ErrorAs(t, err, &limErr)
}
