//go:build linux

package afpacket

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// promiscGuard remembers whether promiscuous mode was turned on by us so
// that Close only clears what it set.
type promiscGuard struct {
	device string
	set    bool
}

func enablePromisc(device string) (*promiscGuard, error) {
	flags, err := linkFlags(device)
	if err != nil {
		return nil, err
	}
	g := &promiscGuard{device: device}
	if flags&unix.IFF_PROMISC != 0 {
		return g, nil
	}
	if err := setLinkFlags(device, flags|unix.IFF_PROMISC); err != nil {
		return nil, err
	}
	g.set = true
	return g, nil
}

func (g *promiscGuard) restore() error {
	if !g.set {
		return nil
	}
	flags, err := linkFlags(g.device)
	if err != nil {
		return err
	}
	return setLinkFlags(g.device, flags&^unix.IFF_PROMISC)
}

func linkFlags(device string) (uint16, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, errors.Wrap(err, "control socket")
	}
	defer unix.Close(fd)

	ifr, err := unix.NewIfreq(device)
	if err != nil {
		return 0, errors.Wrapf(err, "link %s", device)
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return 0, errors.Wrapf(err, "get flags of %s", device)
	}
	return ifr.Uint16(), nil
}

func setLinkFlags(device string, flags uint16) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return errors.Wrap(err, "control socket")
	}
	defer unix.Close(fd)

	ifr, err := unix.NewIfreq(device)
	if err != nil {
		return errors.Wrapf(err, "link %s", device)
	}
	ifr.SetUint16(flags)
	if err := unix.IoctlIfreq(fd, unix.SIOCSIFFLAGS, ifr); err != nil {
		return errors.Wrapf(err, "set flags of %s", device)
	}
	return nil
}
