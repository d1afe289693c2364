// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/srl-labs/bgplab/utils"
)

// Interface is a named container interface with its lab-assigned address.
type Interface struct {
	Name string `yaml:"name"`
	CIDR string `yaml:"cidr"`
}

// Switch describes one routing node of the lab. The container with this name
// must already be running; the sequencer only configures it.
type Switch struct {
	Name     string `yaml:"name"`
	ASN      uint32 `yaml:"asn"`
	RouterID string `yaml:"router-id"`

	// Fabric is the inter-switch point-to-point link, a /31.
	Fabric Interface `yaml:"fabric"`
	// HostLink faces the attached host subnet, a /24.
	HostLink Interface `yaml:"host-link"`
	// Loopback carries the router-id as a /32.
	Loopback Interface `yaml:"loopback"`

	// PeerAddress and PeerASN identify the single BGP neighbor,
	// the remote end of the fabric link.
	PeerAddress string `yaml:"peer-address"`
	PeerASN     uint32 `yaml:"peer-asn"`
}

// Host describes one end host attached to a switch.
type Host struct {
	Name      string `yaml:"name"`
	Interface string `yaml:"interface"`
	Address   string `yaml:"address"`
	// Gateway is the lab default route target, the switch's host-facing address.
	Gateway string `yaml:"gateway"`
	// StaleGateway is the management-network default route the container
	// runtime installed at start; it shadows the lab route and is removed
	// during bring-up. Empty means remove whatever default is present.
	StaleGateway string `yaml:"stale-gateway,omitempty"`
	// ProbeTarget is the remote host address used for the final
	// connectivity check.
	ProbeTarget string `yaml:"probe-target"`
}

// Topology is the static description of the lab. It is immutable for a given
// invocation; the sequencer holds no state of its own between runs.
type Topology struct {
	Switches []*Switch `yaml:"switches"`
	Hosts    []*Host   `yaml:"hosts"`
}

// DefaultTopology returns the built-in two-switch/two-host lab.
func DefaultTopology() *Topology {
	return &Topology{
		Switches: []*Switch{
			{
				Name:        "switch1",
				ASN:         65001,
				RouterID:    "1.1.1.1",
				Fabric:      Interface{Name: "Ethernet0", CIDR: "10.0.0.0/31"},
				HostLink:    Interface{Name: "Ethernet4", CIDR: "192.168.1.1/24"},
				Loopback:    Interface{Name: "Loopback0", CIDR: "1.1.1.1/32"},
				PeerAddress: "10.0.0.1",
				PeerASN:     65002,
			},
			{
				Name:        "switch2",
				ASN:         65002,
				RouterID:    "2.2.2.2",
				Fabric:      Interface{Name: "Ethernet0", CIDR: "10.0.0.1/31"},
				HostLink:    Interface{Name: "Ethernet4", CIDR: "192.168.2.1/24"},
				Loopback:    Interface{Name: "Loopback0", CIDR: "2.2.2.2/32"},
				PeerAddress: "10.0.0.0",
				PeerASN:     65001,
			},
		},
		Hosts: []*Host{
			{
				Name:        "host1",
				Interface:   "eth1",
				Address:     "192.168.1.10/24",
				Gateway:     "192.168.1.1",
				ProbeTarget: "192.168.2.10",
			},
			{
				Name:        "host2",
				Interface:   "eth1",
				Address:     "192.168.2.10/24",
				Gateway:     "192.168.2.1",
				ProbeTarget: "192.168.1.10",
			},
		},
	}
}

// LoadTopology reads a topology definition from a yaml file.
func LoadTopology(path string) (*Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file %s: %w", path, err)
	}

	t := &Topology{}
	if err := yaml.UnmarshalStrict(b, t); err != nil {
		return nil, fmt.Errorf("failed to parse topology file %s: %w", path, err)
	}

	if err := t.Verify(); err != nil {
		return nil, err
	}

	return t, nil
}

// Verify checks the topology invariants: fabric links form valid /31
// point-to-point pairs and router-ids are unique across switches.
func (t *Topology) Verify() error {
	if len(t.Switches) == 0 {
		return fmt.Errorf("topology defines no switches")
	}

	rids := map[string]string{}

	for _, s := range t.Switches {
		if s.Name == "" {
			return fmt.Errorf("switch with empty name in topology")
		}

		if dup, ok := rids[s.RouterID]; ok {
			return fmt.Errorf("router-id %s used by both %s and %s", s.RouterID, dup, s.Name)
		}
		rids[s.RouterID] = s.Name

		if !utils.SameP2PPair(s.Fabric.CIDR, s.PeerAddress) {
			return fmt.Errorf("switch %s: fabric address %s and peer address %s are not a point-to-point /31 pair",
				s.Name, s.Fabric.CIDR, s.PeerAddress)
		}

		peer := t.switchByAddress(s.PeerAddress)
		if peer == nil {
			return fmt.Errorf("switch %s: no switch owns peer address %s", s.Name, s.PeerAddress)
		}
		if peer.ASN != s.PeerASN {
			return fmt.Errorf("switch %s: peer-asn %d does not match AS %d of %s",
				s.Name, s.PeerASN, peer.ASN, peer.Name)
		}
	}

	for _, h := range t.Hosts {
		if h.Name == "" {
			return fmt.Errorf("host with empty name in topology")
		}
		if h.Gateway == "" {
			return fmt.Errorf("host %s has no gateway", h.Name)
		}
	}

	return nil
}

// SwitchByName returns the switch with the given container name or nil.
func (t *Topology) SwitchByName(name string) *Switch {
	for _, s := range t.Switches {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (t *Topology) switchByAddress(addr string) *Switch {
	for _, s := range t.Switches {
		if utils.AddrFromCIDR(s.Fabric.CIDR) == addr {
			return s
		}
	}
	return nil
}

// HostSubnet returns the network prefix of the switch's host-facing link,
// the subnet it advertises into BGP.
func (s *Switch) HostSubnet() string {
	return utils.NetworkFromCIDR(s.HostLink.CIDR)
}

// Interfaces returns the switch's lab interfaces in configuration order:
// fabric link first, then the host-facing link, then the loopback. The order
// is fixed so that repeated runs replay the identical command sequence.
func (s *Switch) Interfaces() []Interface {
	return []Interface{s.Fabric, s.HostLink, s.Loopback}
}
