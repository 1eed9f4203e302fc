package postgres

func (p *Postgres) Reports() *Reports         { return NewReports(p.Pool, p.logger) }
func (p *Postgres) Occurrences() *Occurrences { return NewOccurrences(p.Pool, p.logger) }
func (p *Postgres) Feedback() *Feedback       { return NewFeedback(p.Pool, p.logger) }
func (p *Postgres) Entities() *Entities       { return NewEntities(p.Pool, p.logger) }
