package domain

// NewSubscriber is a signup request whose fields have both been validated.
// It is only produced by ParseNewSubscriber.
type NewSubscriber struct {
	name  SubscriberName
	email SubscriberEmail
}

// ParseNewSubscriber validates both raw inputs. The name is checked first;
// the first failure is returned.
func ParseNewSubscriber(rawName, rawEmail string) (NewSubscriber, error) {
	name, err := ParseSubscriberName(rawName)
	if err != nil {
		return NewSubscriber{}, err
	}
	email, err := ParseSubscriberEmail(rawEmail)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{name: name, email: email}, nil
}

func (s NewSubscriber) Name() SubscriberName {
	return s.name
}

func (s NewSubscriber) Email() SubscriberEmail {
	return s.email
}
