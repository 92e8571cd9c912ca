// Package nats publishes API client security incidents to NATS.
//
//	nc, err := nats.Connect(cfg)
//	if err != nil {
//		return err
//	}
//	defer nc.Drain()
//
//	sink, err := nats.NewIncidentPublisher(nc, cfg.Subject)
//	if err != nil {
//		return err
//	}
//	client, err := apiclient.New(apiCfg, apiclient.WithIncidentSink(sink))
//
// Incidents are published fire-and-forget as JSON objects with id, type,
// url, timestamp and user_agent fields.
package nats
