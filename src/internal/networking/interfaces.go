package networking

import (
	"net"

	"github.com/vishvananda/netlink"
)

type Interface struct {
	netlink.Link
}

func GetInterfaceList() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	var interfaces []Interface
	for _, link := range links {
		interfaces = append(interfaces, Interface{link})
	}
	return interfaces, nil
}

func (iface *Interface) Name() string {
	return iface.Attrs().Name
}

func (iface *Interface) IsUp() bool {
	return iface.Attrs().Flags&net.FlagUp != 0
}

// NetlinkInterfaceLister lists host interfaces over netlink.
type NetlinkInterfaceLister struct{}

func NewInterfaceLister() *NetlinkInterfaceLister {
	return &NetlinkInterfaceLister{}
}

// InterfaceNames returns the names of all links, up or down.
func (l *NetlinkInterfaceLister) InterfaceNames() ([]string, error) {
	interfaces, err := GetInterfaceList()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(interfaces))
	for i := range interfaces {
		names = append(names, interfaces[i].Name())
	}
	return names, nil
}
