// Package services talks to a myMPD server.
//
// # Transport
//
// [Client] speaks JSON-RPC 2.0 over HTTP: every call is a POST to {base}/api/{partition}
// carrying {"jsonrpc":"2.0","id":n,"method":M,"params":P}. The reply holds either a result
// or an error object, surfaced as [BackendError]. Calls share a [rate.Limiter].
//
// [Client.Call] blocks. [Client.Request] returns at once and hands the [Response] to a
// continuation through the client's Deliver hook, which an event loop points at itself so
// continuations never race with rendering.
//
// # Domain services
//
//   - [HomeService] : list, get, add, edit, duplicate, delete, move and execute home icons
//   - [HomeMover] : non-blocking home icon moves for drag-and-drop
//   - [PartitionService] : partitions and moving outputs into the current one
//   - [EventListener] : websocket notifications (home, outputs, player state)
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrValidation] : input rejected before any request
//   - [shared.ErrBackend] : the server answered with an error object
//   - [shared.ErrAPIRequest] : transport or HTTP status failure
//   - [shared.ErrTimeout] : the request or the rate limiter ran out of time
//   - [shared.ErrNoOpMove] : a move whose source and target are equal
package services
