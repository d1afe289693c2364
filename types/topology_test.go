package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTopologyIsValid(t *testing.T) {
	topo := DefaultTopology()

	require.NoError(t, topo.Verify())

	assert.Len(t, topo.Switches, 2)
	assert.Len(t, topo.Hosts, 2)

	s1 := topo.SwitchByName("switch1")
	require.NotNil(t, s1)
	assert.EqualValues(t, 65001, s1.ASN)
	assert.Equal(t, "1.1.1.1", s1.RouterID)
	assert.Equal(t, "10.0.0.1", s1.PeerAddress)
	assert.EqualValues(t, 65002, s1.PeerASN)
	assert.Equal(t, "192.168.1.0/24", s1.HostSubnet())

	s2 := topo.SwitchByName("switch2")
	require.NotNil(t, s2)
	assert.Equal(t, "2.2.2.2", s2.RouterID)
	assert.Equal(t, "10.0.0.0", s2.PeerAddress)
	assert.EqualValues(t, 65001, s2.PeerASN)
}

func TestInterfacesOrder(t *testing.T) {
	s := DefaultTopology().Switches[0]

	ifaces := s.Interfaces()

	require.Len(t, ifaces, 3)
	assert.Equal(t, s.Fabric, ifaces[0])
	assert.Equal(t, s.HostLink, ifaces[1])
	assert.Equal(t, s.Loopback, ifaces[2])
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *Topology)
		wantErr string
	}{
		{
			name:   "valid topology",
			mutate: func(*Topology) {},
		},
		{
			name: "duplicate router-id",
			mutate: func(t *Topology) {
				t.Switches[1].RouterID = t.Switches[0].RouterID
			},
			wantErr: "router-id",
		},
		{
			name: "fabric not a /31",
			mutate: func(t *Topology) {
				t.Switches[0].Fabric.CIDR = "10.0.0.0/30"
			},
			wantErr: "point-to-point",
		},
		{
			name: "peer outside the /31 pair",
			mutate: func(t *Topology) {
				t.Switches[0].PeerAddress = "10.0.0.2"
			},
			wantErr: "point-to-point",
		},
		{
			name: "peer address equals own address",
			mutate: func(t *Topology) {
				t.Switches[0].PeerAddress = "10.0.0.0"
			},
			wantErr: "point-to-point",
		},
		{
			name: "peer ASN mismatch",
			mutate: func(t *Topology) {
				t.Switches[0].PeerASN = 65099
			},
			wantErr: "peer-asn",
		},
		{
			name: "host without gateway",
			mutate: func(t *Topology) {
				t.Hosts[0].Gateway = ""
			},
			wantErr: "no gateway",
		},
		{
			name: "no switches",
			mutate: func(t *Topology) {
				t.Switches = nil
			},
			wantErr: "no switches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo := DefaultTopology()
			tt.mutate(topo)

			err := topo.Verify()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTopology(t *testing.T) {
	content := `switches:
  - name: leaf1
    asn: 64512
    router-id: 10.10.10.1
    fabric:
      name: Ethernet0
      cidr: 172.16.0.0/31
    host-link:
      name: Ethernet4
      cidr: 10.1.0.1/24
    loopback:
      name: Loopback0
      cidr: 10.10.10.1/32
    peer-address: 172.16.0.1
    peer-asn: 64513
  - name: leaf2
    asn: 64513
    router-id: 10.10.10.2
    fabric:
      name: Ethernet0
      cidr: 172.16.0.1/31
    host-link:
      name: Ethernet4
      cidr: 10.2.0.1/24
    loopback:
      name: Loopback0
      cidr: 10.10.10.2/32
    peer-address: 172.16.0.0
    peer-asn: 64512
hosts:
  - name: client1
    interface: eth1
    address: 10.1.0.10/24
    gateway: 10.1.0.1
    probe-target: 10.2.0.10
`

	path := filepath.Join(t.TempDir(), "topo.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	topo, err := LoadTopology(path)
	require.NoError(t, err)

	assert.Len(t, topo.Switches, 2)
	require.Len(t, topo.Hosts, 1)
	assert.Equal(t, "leaf1", topo.Switches[0].Name)
	assert.Equal(t, "10.1.0.1", topo.Hosts[0].Gateway)
}

func TestLoadTopologyRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topo.yml")
	require.NoError(t, os.WriteFile(path, []byte("bogus: true\n"), 0o644))

	_, err := LoadTopology(path)
	assert.Error(t, err)
}

func TestLoadTopologyMissingFile(t *testing.T) {
	_, err := LoadTopology(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
