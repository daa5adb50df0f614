package catalog

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bootstrap *Bootstrap
	Fixtures  []RawFixture
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBootstrap() (*Bootstrap, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bootstrap, nil
}

func (m *MockFetcher) FetchFixtures() ([]RawFixture, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fixtures, nil
}
