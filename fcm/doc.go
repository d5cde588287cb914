// Package fcm bridges platform push registration (APNs device tokens) and the
// Firebase Cloud Messaging SDK.
//
// A Manager caches the last APNs device token and the last FCM registration
// token in a key-value store, forwards device tokens to the SDK, exposes topic
// subscribe/unsubscribe as fire-and-forget calls and notifies listeners when the
// SDK hands out a registration token that differs from the cached one.
//
// Usage:
//
//	m := fcm.NewManager(sdk, registrar, kv, fcm.WithLogger(logger))
//	m.OnTokenReceived(func(token string) { ... })
//	m.Configure(ctx)
//	go m.Run(ctx)
package fcm
