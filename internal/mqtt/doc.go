// Package mqtt republishes presentation events to an MQTT broker so other
// consumers (home automation, loggers) can follow the thermostat without
// polling the backend themselves.
//
// # Topics and Payloads
//
// Each event goes to <prefix>/<kind>, for example thermo/events/connection,
// as a JSON object:
//
//	{"event": "connection", "timestamp": "2026-03-01T12:00:00Z", "data": {...}}
//
// Connection and values messages are retained at QoS 1 so a new subscriber
// sees the current state immediately. Everything else is QoS 0. Elapsed and
// updating events are render timing and are not published.
//
// # Sink
//
// Sink implements present.Presenter. Present only queues the event; a
// background goroutine publishes it. When the queue is full the event is
// dropped and counted, so a slow broker never stalls the sync loop.
//
// # Clients
//
// RealClient wraps eclipse/paho.mqtt.golang. FakeClient records messages for
// tests.
package mqtt
