// Package health runs named provider checks in parallel with a shared timeout.
//
//	resp := health.Run(ctx, health.Checks{
//		"mandrill": client.Ping,
//	}, health.WithTimeout(3*time.Second))
//	if err := resp.Err(); err != nil {
//		return err
//	}
//
// Every check gets its own entry in Response.Checks; the overall status is
// unhealthy if any check fails.
package health
