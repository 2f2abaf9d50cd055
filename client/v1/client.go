package v1

type CrewtrackClient struct {
	Transport  *Transport
	Attendance *AttendanceEndpoint
	Tasks      *TaskEndpoint
}

// NewCrewtrackClient initializes the API client
func NewCrewtrackClient(baseURL string, token string) *CrewtrackClient {
	t := NewTransport(baseURL, token)
	return &CrewtrackClient{
		Transport:  t,
		Attendance: &AttendanceEndpoint{transport: t},
		Tasks:      &TaskEndpoint{transport: t},
	}
}
