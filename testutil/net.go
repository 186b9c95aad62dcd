/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package testutil contains helpers shared by synckit tests.
package testutil

import (
	"errors"
	"net"
	"time"
)

// LocalAddrWithFreeTCPPort returns a 127.0.0.1:<port> address nobody listens on.
func LocalAddrWithFreeTCPPort() string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	addr := listener.Addr().String()
	if err = listener.Close(); err != nil {
		panic(err)
	}
	return addr
}

// WaitListeningServer waits until a TCP connection to addr can be established.
func WaitListeningServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if conn, err := net.DialTimeout("tcp", addr, time.Second); err == nil {
			return conn.Close()
		}
		if time.Now().After(deadline) {
			return errors.New("waiting for listening server timed out")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
