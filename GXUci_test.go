package gxuwb

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/Gurux/gxuwb-go/device"
	"github.com/Gurux/gxuwb-go/monitor"
	"github.com/Gurux/gxuwb-go/status"
	"github.com/Gurux/gxuwb-go/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondingMock answers every complete command with an OK response of the
// same group and opcode.
func respondingMock() *device.Mock {
	var mock *device.Mock
	mock = device.NewMock(device.WithOnWrite(func(p []byte) {
		h, err := uci.DecodeHeader(p)
		if err != nil || h.MessageType != uci.MessageTypeCommand || h.PBF {
			return
		}
		rsp, _ := uci.BuildPacket(uci.MessageTypeResponse, h.GroupID, h.OpcodeID, []byte{byte(uci.StatusOK), 0x01})
		mock.Inject(rsp)
	}))
	return mock
}

func newTestUci(t *testing.T, mock *device.Mock) (*GXUci, *monitor.Monitor) {
	t.Helper()
	tml := newTestTml(t, mock)
	mon := monitor.New()
	u := NewGXUci(tml, mon)
	require.NoError(t, u.Start())
	return u, mon
}

func TestSendCommandRoundTrip(t *testing.T) {
	mock := respondingMock()
	u, mon := newTestUci(t, mock)

	rsp, err := u.SendCommand(uci.GroupCore, uci.OidCoreDeviceInfo, nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x02, 0x00, 0x02, 0x00, 0x01}, rsp)
	assert.Equal(t, [][]byte{{0x20, 0x02, 0x00, 0x00}}, mock.Writes())
	assert.Zero(t, mon.Pending())

	st, ok := uci.ResponseStatus(rsp)
	require.True(t, ok)
	assert.Equal(t, uci.StatusOK, st)
}

func TestSendCommandFragmentsLongPayload(t *testing.T) {
	mock := respondingMock()
	u, _ := newTestUci(t, mock)

	payload := bytes.Repeat([]byte{0x5A}, 300)
	_, err := u.SendCommand(uci.GroupSessionManage, uci.OidSessionSetAppConfig, payload, time.Second)
	require.NoError(t, err)

	writes := mock.Writes()
	require.Len(t, writes, 2)
	var r uci.Reassembler
	var msg *uci.Message
	for _, w := range writes {
		msg, err = r.Push(w)
		require.NoError(t, err)
	}
	require.NotNil(t, msg)
	assert.Equal(t, payload, msg.Payload)
}

func TestSendCommandTimeout(t *testing.T) {
	mock := device.NewMock()
	u, mon := newTestUci(t, mock)

	_, err := u.SendCommand(uci.GroupCore, uci.OidCoreGetCapsInfo, nil, 50*time.Millisecond)
	assert.ErrorIs(t, err, status.ErrTimeout)
	assert.Zero(t, mon.Pending())
}

func TestSendCommandUsesDefaultTimeout(t *testing.T) {
	u, _ := newTestUci(t, device.NewMock())
	u.Timeout = 30 * time.Millisecond
	start := time.Now()
	_, err := u.SendCommand(uci.GroupCore, uci.OidCoreGetCapsInfo, nil, 0)
	assert.ErrorIs(t, err, status.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWrongResponseIsDropped(t *testing.T) {
	var mock *device.Mock
	mock = device.NewMock(device.WithOnWrite(func([]byte) {
		other, _ := uci.BuildPacket(uci.MessageTypeResponse, uci.GroupCore, uci.OidCoreSetConfig, []byte{0x00})
		mock.Inject(other)
	}))
	u, _ := newTestUci(t, mock)

	_, err := u.SendCommand(uci.GroupCore, uci.OidCoreDeviceInfo, nil, 50*time.Millisecond)
	assert.ErrorIs(t, err, status.ErrTimeout)
}

func TestNotificationsReachHandler(t *testing.T) {
	mock := device.NewMock()
	u, _ := newTestUci(t, mock)
	got := make(chan *uci.Message, 4)
	u.SetOnNotification(func(_ *GXUci, msg *uci.Message) { got <- msg })

	unsolicited, _ := uci.BuildPacket(uci.MessageTypeResponse, uci.GroupCore, uci.OidCoreDeviceInfo, []byte{0x00})
	mock.Inject(unsolicited)
	ntf, _ := uci.BuildPacket(uci.MessageTypeNotification, uci.GroupCore, uci.OidCoreDeviceStatusNtf, []byte{uci.DeviceStateReady})
	mock.Inject(ntf)

	select {
	case msg := <-got:
		assert.Equal(t, uci.MessageTypeNotification, msg.MessageType)
		assert.Equal(t, uci.OidCoreDeviceStatusNtf, msg.OpcodeID)
		assert.Equal(t, []byte{uci.DeviceStateReady}, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestFragmentedNotificationIsReassembled(t *testing.T) {
	mock := device.NewMock()
	u, _ := newTestUci(t, mock)
	got := make(chan *uci.Message, 1)
	u.SetOnNotification(func(_ *GXUci, msg *uci.Message) { got <- msg })

	payload := bytes.Repeat([]byte{0x11}, 400)
	pkts, err := uci.Fragment(uci.MessageTypeNotification, uci.GroupRangeManage, uci.OidRangeDataNtf, payload, 0)
	require.NoError(t, err)
	for _, p := range pkts {
		mock.Inject(p)
	}
	select {
	case msg := <-got:
		assert.Equal(t, payload, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestInterruptedNotificationIsNotDelivered(t *testing.T) {
	mock := device.NewMock()
	u, _ := newTestUci(t, mock)
	got := make(chan *uci.Message, 4)
	u.SetOnNotification(func(_ *GXUci, msg *uci.Message) { got <- msg })

	ntf, err := uci.Fragment(uci.MessageTypeNotification, uci.GroupSessionManage, uci.OidSessionStatusNtf, []byte{1, 2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)
	data, err := uci.BuildPacket(uci.MessageTypeData, 0x01, 0x00, []byte{0xDA})
	require.NoError(t, err)
	last, err := uci.BuildPacket(uci.MessageTypeNotification, uci.GroupCore, uci.OidCoreDeviceStatusNtf, []byte{uci.DeviceStateReady})
	require.NoError(t, err)

	mock.Inject(ntf[0])
	mock.Inject(data)
	mock.Inject(ntf[1])
	mock.Inject(ntf[2])
	mock.Inject(last)

	var msgs []*uci.Message
	for range 2 {
		select {
		case msg := <-got:
			msgs = append(msgs, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Equal(t, uci.MessageTypeData, msgs[0].MessageType)
	assert.Equal(t, []byte{0xDA}, msgs[0].Payload)
	assert.Equal(t, uci.OidCoreDeviceStatusNtf, msgs[1].OpcodeID)
	select {
	case msg := <-got:
		t.Fatalf("unexpected message %s", msg)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestDeviceErrorTriggersRecovery(t *testing.T) {
	mock := device.NewMock()
	_, mon := newTestUci(t, mock)
	reasons := make(chan string, 1)
	mon.SetRecoveryHandler(func(reason string) { reasons <- reason })

	ntf, _ := uci.BuildPacket(uci.MessageTypeNotification, uci.GroupCore, uci.OidCoreDeviceStatusNtf, []byte{uci.DeviceStateError})
	mock.Inject(ntf)
	select {
	case reason := <-reasons:
		assert.NotEmpty(t, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("recovery not triggered")
	}
}

func TestStopReleasesPendingCommand(t *testing.T) {
	mock := device.NewMock()
	u, mon := newTestUci(t, mock)

	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = u.SendCommand(uci.GroupCore, uci.OidCoreDeviceInfo, nil, 5*time.Second)
	}()
	require.Eventually(t, func() bool { return len(mock.Writes()) == 1 && mon.Pending() == 1 },
		2*time.Second, 5*time.Millisecond)
	u.Stop()
	wg.Wait()
	assert.ErrorIs(t, err, status.ErrFailed)
}
