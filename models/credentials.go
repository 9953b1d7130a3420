package models

// Credentials is the identity attached to a request by the authentication
// layer, which lives outside this service. Only the owner of an import job may
// read or mutate it.
type Credentials struct {
	UserId string
}

func (c Credentials) CanAccessJob(job ImportJob) bool {
	return c.UserId != "" && c.UserId == job.OwnerId
}
